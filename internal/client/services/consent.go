package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/nexo/internal/client/models"
	"github.com/dmitrijs2005/nexo/internal/client/repositories/consentlog"
	"github.com/dmitrijs2005/nexo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nexo/internal/dbx"
	"github.com/dmitrijs2005/nexo/internal/logging"
)

// DefaultConsentVersion is the consent schema version the banner asks for.
// Records stored under any other version count as no decision.
const DefaultConsentVersion = "1.0"

// Consent log sources.
const (
	SourceAcceptAll          = "accept_all"
	SourceRejectNonEssential = "reject_non_essential"
	SourceSavePreferences    = "save_preferences"
)

// AnalyticsInitializer is started once the user has allowed analytics and
// paused whenever the stored decision no longer allows it.
type AnalyticsInitializer interface {
	Init(ctx context.Context) error
	SetEnabled(enabled bool)
}

// ConsentManager reads and writes the cookie-consent record. The record lives
// in the metadata table; every decision is also appended to the consent log
// in the same transaction.
type ConsentManager struct {
	db      *sql.DB
	meta    metadata.Repository
	version string
	log     logging.Logger
	now     func() time.Time

	analytics AnalyticsInitializer
	initOnce  sync.Once

	mu     sync.Mutex
	status models.ConsentStatus
}

// NewConsentManager builds a manager over db. An empty version selects
// DefaultConsentVersion; analytics may be nil.
func NewConsentManager(db *sql.DB, version string, analytics AnalyticsInitializer, log logging.Logger) *ConsentManager {
	if version == "" {
		version = DefaultConsentVersion
	}
	if log == nil {
		log = logging.Nop()
	}
	return &ConsentManager{
		db:        db,
		meta:      metadata.NewSQLiteRepository(db),
		version:   version,
		analytics: analytics,
		log:       log.With("component", "consent"),
		now:       time.Now,
		status:    models.ConsentUnknown,
	}
}

func (m *ConsentManager) Version() string { return m.version }

// ReadConsent returns the stored record. ok is false when there is no record,
// it cannot be decoded, or it was written for another version.
func (m *ConsentManager) ReadConsent(ctx context.Context) (models.ConsentRecord, bool, error) {
	rec, ok, err := m.read(ctx)
	if err != nil {
		return models.ConsentRecord{}, false, err
	}

	m.mu.Lock()
	m.status = statusOf(rec, ok)
	m.mu.Unlock()

	m.applyAnalytics(ctx, ok && rec.Analytics)
	return rec, ok, nil
}

func (m *ConsentManager) read(ctx context.Context) (models.ConsentRecord, bool, error) {
	raw, err := m.meta.Get(ctx, metadata.KeyCookieConsent)
	if err != nil {
		return models.ConsentRecord{}, false, fmt.Errorf("read consent: %w", err)
	}
	if raw == nil {
		return models.ConsentRecord{}, false, nil
	}

	var rec models.ConsentRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		m.log.Warn(ctx, "unreadable consent record, asking again", "error", err)
		return models.ConsentRecord{}, false, nil
	}
	if rec.Version != m.version {
		m.log.Info(ctx, "consent version changed, asking again", "stored", rec.Version, "current", m.version)
		return models.ConsentRecord{}, false, nil
	}
	rec.Essential = true
	return rec, true, nil
}

// AcceptAll allows every optional category.
func (m *ConsentManager) AcceptAll(ctx context.Context) (models.ConsentRecord, error) {
	return m.write(ctx, true, SourceAcceptAll)
}

// RejectNonEssential keeps only essential cookies.
func (m *ConsentManager) RejectNonEssential(ctx context.Context) (models.ConsentRecord, error) {
	return m.write(ctx, false, SourceRejectNonEssential)
}

// SavePreferences stores the user's explicit analytics choice.
func (m *ConsentManager) SavePreferences(ctx context.Context, analytics bool) (models.ConsentRecord, error) {
	return m.write(ctx, analytics, SourceSavePreferences)
}

func (m *ConsentManager) write(ctx context.Context, analytics bool, source string) (models.ConsentRecord, error) {
	rec := models.ConsentRecord{
		Essential: true,
		Analytics: analytics,
		Timestamp: m.now().UTC(),
		Version:   m.version,
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return models.ConsentRecord{}, fmt.Errorf("encode consent: %w", err)
	}

	err = dbx.WithTx(ctx, m.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := metadata.NewSQLiteRepository(tx).Set(ctx, metadata.KeyCookieConsent, raw); err != nil {
			return err
		}
		return consentlog.NewSQLiteRepository(tx).Append(ctx, &models.ConsentLogEntry{
			Analytics: analytics,
			Version:   m.version,
			Source:    source,
			CreatedAt: rec.Timestamp,
		})
	})
	if err != nil {
		return models.ConsentRecord{}, fmt.Errorf("save consent: %w", err)
	}

	m.mu.Lock()
	m.status = statusOf(rec, true)
	m.mu.Unlock()

	m.log.Info(ctx, "consent saved", "analytics", analytics, "source", source)
	m.applyAnalytics(ctx, analytics)
	return rec, nil
}

// AnalyticsConsent reports whether analytics may run.
func (m *ConsentManager) AnalyticsConsent(ctx context.Context) bool {
	rec, ok, err := m.ReadConsent(ctx)
	if err != nil {
		m.log.Warn(ctx, "consent unavailable, analytics stays off", "error", err)
		return false
	}
	return ok && rec.Analytics
}

// ShouldShowBanner is true when no decision exists for the current version.
// A storage failure also shows the banner.
func (m *ConsentManager) ShouldShowBanner(ctx context.Context) bool {
	_, ok, err := m.ReadConsent(ctx)
	if err != nil {
		m.log.Warn(ctx, "consent unavailable", "error", err)
		return true
	}
	return !ok
}

// Status returns the last observed state without touching storage; it is
// ConsentUnknown until the record has been read or written.
func (m *ConsentManager) Status() models.ConsentStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// History returns the most recent consent decisions, newest first.
func (m *ConsentManager) History(ctx context.Context, limit int) ([]models.ConsentLogEntry, error) {
	return consentlog.NewSQLiteRepository(m.db).List(ctx, limit)
}

// applyAnalytics initializes analytics on the first allowed decision and
// switches it on or off to match the current one.
func (m *ConsentManager) applyAnalytics(ctx context.Context, allowed bool) {
	if m.analytics == nil {
		return
	}
	if allowed {
		m.initOnce.Do(func() {
			if err := m.analytics.Init(ctx); err != nil {
				m.log.Warn(ctx, "analytics init failed", "error", err)
			}
		})
	}
	m.analytics.SetEnabled(allowed)
}

func statusOf(rec models.ConsentRecord, ok bool) models.ConsentStatus {
	switch {
	case !ok:
		return models.ConsentUndecided
	case rec.Analytics:
		return models.ConsentDecidedAccept
	default:
		return models.ConsentDecidedPartial
	}
}
