package repository

import (
	"context"

	"github.com/smallbiznis/crmlite/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a generic gorm-backed store for a lookup table.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	Create(ctx context.Context, resource *T) error
	Count(ctx context.Context, query *T) (int64, error)
	// Exists reports whether any row matches the non-zero fields of query.
	Exists(ctx context.Context, query *T) (bool, error)
}
