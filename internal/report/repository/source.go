package repository

import (
	"context"

	presaledomain "github.com/smallbiznis/crmlite/internal/presale/domain"
	"github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/smallbiznis/crmlite/pkg/db/option"
	"github.com/smallbiznis/crmlite/pkg/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Repo presaledomain.Repository
}

// source reads report inputs from the pre-sale tables.
type source struct {
	db         *gorm.DB
	repo       presaledomain.Repository
	statusRepo repository.Repository[presaledomain.Status]
	resultRepo repository.Repository[presaledomain.Result]
}

func Provide(p Params) domain.Source {
	return &source{
		db:         p.DB,
		repo:       p.Repo,
		statusRepo: repository.ProvideStore[presaledomain.Status](p.DB),
		resultRepo: repository.ProvideStore[presaledomain.Result](p.DB),
	}
}

func (s *source) FindGroup(ctx context.Context, groupID int64) (*domain.Group, error) {
	group, err := s.repo.FindGroupByID(ctx, s.db, groupID)
	if err != nil || group == nil {
		return nil, err
	}
	return &domain.Group{
		ID:           group.ID,
		Name:         group.Name,
		StatusID:     group.StatusID,
		DepartmentID: group.DepartmentID,
		CreatedAt:    group.CreatedAt,
		ChangedAt:    group.ChangedAt,
	}, nil
}

func (s *source) ListRecords(ctx context.Context, groupID int64) ([]domain.Record, error) {
	items, err := s.repo.ListByGroup(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	records := make([]domain.Record, 0, len(items))
	for _, item := range items {
		records = append(records, domain.Record{
			ID:                item.ID,
			GroupID:           item.GroupID,
			StatusID:          item.StatusID,
			ResultID:          item.ResultID,
			RegionID:          item.RegionID,
			Organization:      item.Organization,
			ResponsibleUserID: item.ResponsibleUserID,
			CreatedAt:         item.CreatedAt,
			ChangedAt:         item.ChangedAt,
		})
	}
	return records, nil
}

func (s *source) ListStatuses(ctx context.Context) ([]domain.Category, error) {
	items, err := s.statusRepo.Find(ctx, &presaledomain.Status{}, byID())
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Category{ID: item.ID, Name: item.Name})
	}
	return out, nil
}

func (s *source) ListResults(ctx context.Context) ([]domain.Category, error) {
	items, err := s.resultRepo.Find(ctx, &presaledomain.Result{}, byID())
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Category{ID: item.ID, Name: item.Name})
	}
	return out, nil
}

func byID() option.QueryOption {
	return option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"id": true}})
}
