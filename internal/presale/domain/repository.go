package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *PreSale) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*PreSale, error)
	List(ctx context.Context, db *gorm.DB) ([]PreSale, error)
	ListByGroup(ctx context.Context, db *gorm.DB, groupID int64) ([]PreSale, error)
	CountByGroup(ctx context.Context, db *gorm.DB, groupID int64) (int64, error)
	Update(ctx context.Context, db *gorm.DB, item *PreSale) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	Exists(ctx context.Context, db *gorm.DB, id int64) (bool, error)

	InsertGroup(ctx context.Context, db *gorm.DB, group *Group) error
	FindGroupByID(ctx context.Context, db *gorm.DB, id int64) (*Group, error)
	ListGroups(ctx context.Context, db *gorm.DB) ([]Group, error)
	UpdateGroup(ctx context.Context, db *gorm.DB, group *Group) error
	DeleteGroup(ctx context.Context, db *gorm.DB, id int64) error
	GroupExists(ctx context.Context, db *gorm.DB, id int64) (bool, error)
}
