package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/crmlite/internal/presale/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, item *domain.PreSale) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO presales (id, group_id, status_id, result_id, region_id, organization, responsible_user_id, created_at, changed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.GroupID,
		item.StatusID,
		item.ResultID,
		item.RegionID,
		item.Organization,
		item.ResponsibleUserID,
		item.CreatedAt,
		item.ChangedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.PreSale, error) {
	var item domain.PreSale
	err := db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.PreSale, error) {
	var items []domain.PreSale
	err := db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListByGroup(ctx context.Context, db *gorm.DB, groupID int64) ([]domain.PreSale, error) {
	var items []domain.PreSale
	err := db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountByGroup(ctx context.Context, db *gorm.DB, groupID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.PreSale{}).Where("group_id = ?", groupID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, item *domain.PreSale) error {
	if item == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE presales
		 SET group_id = ?, status_id = ?, result_id = ?, region_id = ?, organization = ?, responsible_user_id = ?, changed_at = ?
		 WHERE id = ?`,
		item.GroupID,
		item.StatusID,
		item.ResultID,
		item.RegionID,
		item.Organization,
		item.ResponsibleUserID,
		item.ChangedAt,
		item.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM presales WHERE id = ?`, id).Error
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.PreSale{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) InsertGroup(ctx context.Context, db *gorm.DB, group *domain.Group) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO presale_groups (id, name, status_id, department_id, created_at, changed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		group.ID,
		group.Name,
		group.StatusID,
		group.DepartmentID,
		group.CreatedAt,
		group.ChangedAt,
	).Error
}

func (r *repo) FindGroupByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Group, error) {
	var group domain.Group
	err := db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (r *repo) ListGroups(ctx context.Context, db *gorm.DB) ([]domain.Group, error) {
	var groups []domain.Group
	err := db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *repo) UpdateGroup(ctx context.Context, db *gorm.DB, group *domain.Group) error {
	if group == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE presale_groups SET name = ?, status_id = ?, department_id = ?, changed_at = ? WHERE id = ?`,
		group.Name,
		group.StatusID,
		group.DepartmentID,
		group.ChangedAt,
		group.ID,
	).Error
}

func (r *repo) DeleteGroup(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM presale_groups WHERE id = ?`, id).Error
}

func (r *repo) GroupExists(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Group{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
