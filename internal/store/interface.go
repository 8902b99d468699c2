package store

import (
	"context"
	"time"

	"codeberg.org/vintr/updatemon/internal/rows"
)

// Recorder defines the core domain interface: persist the rows one
// collection cycle produced so the query layer can read them back.
type Recorder interface {
	RecordConfiguration(ctx context.Context, collected []rows.Row, at time.Time) error
	RecordProducts(ctx context.Context, collected []rows.Row, at time.Time) error
	Close() error
}

// Repository defines the interface for row storage
type Repository interface {
	StoreConfiguration(ctx context.Context, collected []rows.Row, at time.Time) error
	StoreProducts(ctx context.Context, collected []rows.Row, at time.Time) error
	Close() error
}
