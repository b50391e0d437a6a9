package ports

import (
	"context"

	"bikestats/domain/rental"
)

// RecordLoader reads raw rental observations from a source file.
type RecordLoader interface {
	Load(ctx context.Context) ([]rental.RawRecord, error)
	Source() string
}
