// Package analytics sends product events to a collector. The tracker stays
// inert until Init is called, and Init is only called once the user has
// allowed analytics. Without a write key every call is a no-op.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/nexo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nexo/internal/logging"
	"github.com/google/uuid"
)

const DefaultEndpoint = "https://api.segment.io/v1/track"

// Event is the payload posted to the collector.
type Event struct {
	Event       string         `json:"event"`
	AnonymousID string         `json:"anonymousId"`
	UserID      string         `json:"userId,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

type Tracker struct {
	writeKey string
	endpoint string
	http     *http.Client
	meta     metadata.Repository
	log      logging.Logger
	now      func() time.Time

	once   sync.Once
	mu     sync.RWMutex
	ready  bool
	paused bool
	anonID string
	userID string
}

// NewTracker builds a tracker. An empty endpoint selects DefaultEndpoint.
func NewTracker(writeKey, endpoint string, meta metadata.Repository, log logging.Logger) *Tracker {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Tracker{
		writeKey: writeKey,
		endpoint: endpoint,
		http:     &http.Client{Timeout: 5 * time.Second},
		meta:     meta,
		log:      log.With("component", "analytics"),
		now:      time.Now,
	}
}

// Enabled reports whether a write key is configured.
func (t *Tracker) Enabled() bool { return t.writeKey != "" }

// Ready reports whether Init has completed and events will be sent.
func (t *Tracker) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ready && !t.paused
}

// SetEnabled pauses or resumes sending without forgetting the identity.
// Consent withdrawal pauses the tracker.
func (t *Tracker) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = !enabled
}

// Init loads or creates the anonymous id. Only the first call has effect.
func (t *Tracker) Init(ctx context.Context) error {
	var err error
	t.once.Do(func() {
		if !t.Enabled() {
			t.log.Debug(ctx, "no write key, analytics disabled")
			return
		}

		var id string
		id, err = t.anonymousID(ctx)
		if err != nil {
			return
		}

		t.mu.Lock()
		t.anonID = id
		t.ready = true
		t.mu.Unlock()
		t.log.Info(ctx, "analytics initialized", "anonymous_id", id)
	})
	return err
}

func (t *Tracker) anonymousID(ctx context.Context) (string, error) {
	raw, err := t.meta.Get(ctx, metadata.KeyAnalyticsAnonID)
	if err != nil {
		return "", fmt.Errorf("load anonymous id: %w", err)
	}
	if raw != nil {
		if id, err := uuid.ParseBytes(raw); err == nil {
			return id.String(), nil
		}
	}

	id := uuid.NewString()
	if err := t.meta.Set(ctx, metadata.KeyAnalyticsAnonID, []byte(id)); err != nil {
		return "", fmt.Errorf("store anonymous id: %w", err)
	}
	return id, nil
}

// Identify attaches a user id to subsequent events; an empty id clears it.
func (t *Tracker) Identify(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userID = userID
}

// Reset forgets the user and rotates the anonymous id, so events after a
// sign-out are not linked to the previous user.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.userID = ""
	if !t.ready {
		return nil
	}
	if err := t.meta.Delete(ctx, metadata.KeyAnalyticsAnonID); err != nil {
		return fmt.Errorf("reset anonymous id: %w", err)
	}
	id := uuid.NewString()
	if err := t.meta.Set(ctx, metadata.KeyAnalyticsAnonID, []byte(id)); err != nil {
		return fmt.Errorf("store anonymous id: %w", err)
	}
	t.anonID = id
	return nil
}

// Track sends one event. It returns nil without sending when the tracker is
// not ready.
func (t *Tracker) Track(ctx context.Context, name string, props map[string]any) error {
	t.mu.RLock()
	ev := Event{
		Event:       name,
		AnonymousID: t.anonID,
		UserID:      t.userID,
		Properties:  props,
		Timestamp:   t.now().UTC(),
	}
	ready := t.ready && !t.paused
	t.mu.RUnlock()

	if !ready {
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(t.writeKey, "")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("send event %q: %w", name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("send event %q: collector returned %d", name, resp.StatusCode)
	}
	return nil
}
