package job

import (
	"context"

	"github.com/honeycarbs/startsmart/internal/domain"
)

// Repository is the local job store
type Repository interface {
	// Find returns stored postings matching every non-empty filter field
	Find(ctx context.Context, filter domain.StoreFilter) ([]domain.LocalRecord, error)

	// Get loads one posting; it returns domain.ErrNotFound when absent
	Get(ctx context.Context, id string) (domain.LocalRecord, error)

	// Insert stores new postings. Records whose RedirectURL already exists are
	// skipped; the number actually inserted is returned.
	Insert(ctx context.Context, records []domain.LocalRecord) (int, error)
}
