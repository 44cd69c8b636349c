package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	presaledomain "github.com/smallbiznis/crmlite/internal/presale/domain"
	reportdomain "github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/smallbiznis/crmlite/pkg/db"
	"github.com/smallbiznis/crmlite/pkg/repository"
	"gorm.io/gorm"
)

const (
	GroupStatusActive   = "Активна"
	GroupStatusFinished = "Завершена"
)

// EnsureReferenceData makes sure every category name the report relies on exists,
// together with the default group statuses. Existing rows are left untouched.
func EnsureReferenceData(conn *gorm.DB, node *snowflake.Node) error {
	if conn == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	statuses := repository.ProvideStore[presaledomain.Status](conn)
	results := repository.ProvideStore[presaledomain.Result](conn)
	groupStatuses := repository.ProvideStore[presaledomain.GroupStatus](conn)

	ctx := context.Background()
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNamed(ctx, statuses.WithTrx(tx), node, reportdomain.RequiredStatusNames(), func(id int64, name string) *presaledomain.Status {
			return &presaledomain.Status{ID: id, Name: name}
		}); err != nil {
			return err
		}
		if err := ensureNamed(ctx, results.WithTrx(tx), node, reportdomain.RequiredResultNames(), func(id int64, name string) *presaledomain.Result {
			return &presaledomain.Result{ID: id, Name: name}
		}); err != nil {
			return err
		}
		return ensureNamed(ctx, groupStatuses.WithTrx(tx), node, []string{GroupStatusActive, GroupStatusFinished}, func(id int64, name string) *presaledomain.GroupStatus {
			return &presaledomain.GroupStatus{ID: id, Name: name}
		})
	})
}

func ensureNamed[T any](ctx context.Context, store repository.Repository[T], node *snowflake.Node, names []string, build func(id int64, name string) *T) error {
	for _, name := range names {
		exists, err := store.Exists(ctx, build(0, name))
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := store.Create(ctx, build(node.Generate().Int64(), name)); err != nil && !db.IsDuplicateKeyErr(err) {
			return err
		}
	}
	return nil
}
