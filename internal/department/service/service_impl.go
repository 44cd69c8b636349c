package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crmlite/internal/department/domain"
	"github.com/smallbiznis/crmlite/pkg/db/option"
	"github.com/smallbiznis/crmlite/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	log  *zap.Logger
	repo repository.Repository[domain.Department]
}

func New(p Params) domain.Service {
	return &Service{
		log:  p.Log.Named("department.service"),
		repo: repository.ProvideStore[domain.Department](p.DB),
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.Find(ctx, &domain.Department{}, byName())
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) ListMain(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.Find(ctx, &domain.Department{},
		option.ApplyOperator(option.Condition{Field: "parent_id", Operator: option.IsNull}),
		byName(),
	)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func byName() option.QueryOption {
	return option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"name": true}})
}

func toResponses(items []*domain.Department) []domain.Response {
	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		r := domain.Response{
			ID:   snowflake.ID(item.ID).String(),
			Name: item.Name,
		}
		if item.ParentID != nil {
			parent := snowflake.ID(*item.ParentID).String()
			r.ParentID = &parent
		}
		resp = append(resp, r)
	}
	return resp
}
