package consentlog

import (
	"context"

	"github.com/dmitrijs2005/nexo/internal/client/models"
)

// Repository appends and lists consent decisions.
type Repository interface {
	Append(ctx context.Context, e *models.ConsentLogEntry) error
	// List returns the newest entries first; limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]models.ConsentLogEntry, error)
}
