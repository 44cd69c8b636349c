package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crmlite/internal/clock"
	departmentdomain "github.com/smallbiznis/crmlite/internal/department/domain"
	"github.com/smallbiznis/crmlite/internal/presale/domain"
	reportdomain "github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/smallbiznis/crmlite/pkg/db"
	"github.com/smallbiznis/crmlite/pkg/db/option"
	"github.com/smallbiznis/crmlite/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Clock   clock.Clock
	Reports reportdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	clock   clock.Clock
	reports reportdomain.Service

	statusRepo      repository.Repository[domain.Status]
	resultRepo      repository.Repository[domain.Result]
	regionRepo      repository.Repository[domain.Region]
	groupStatusRepo repository.Repository[domain.GroupStatus]
	departmentRepo  repository.Repository[departmentdomain.Department]
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("presale.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		clock:   p.Clock,
		reports: p.Reports,

		statusRepo:      repository.ProvideStore[domain.Status](p.DB),
		resultRepo:      repository.ProvideStore[domain.Result](p.DB),
		regionRepo:      repository.ProvideStore[domain.Region](p.DB),
		groupStatusRepo: repository.ProvideStore[domain.GroupStatus](p.DB),
		departmentRepo:  repository.ProvideStore[departmentdomain.Department](p.DB),
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) ListByGroup(ctx context.Context, groupID string) ([]domain.Response, error) {
	id, err := parseID(groupID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByGroup(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.Request) (*domain.Response, error) {
	item, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	item.ID = s.genID.Generate().Int64()
	item.CreatedAt = now
	item.ChangedAt = now

	if err := s.repo.Insert(ctx, s.db, item); err != nil {
		return nil, s.mapWriteErr(err)
	}

	s.log.Info("pre-sale created",
		zap.String("organization", item.Organization),
		zap.String("presale_id", snowflake.ID(item.ID).String()),
		zap.String("group_id", snowflake.ID(item.GroupID).String()),
	)

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.Request) (*domain.Response, error) {
	presaleID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if bodyID := strings.TrimSpace(req.ID); bodyID != "" && bodyID != snowflake.ID(presaleID).String() {
		return nil, domain.ErrIDMismatch
	}

	existing, err := s.repo.FindByID(ctx, s.db, presaleID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	item, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.ChangedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, s.mapWriteErr(err)
	}

	s.log.Info("pre-sale updated", zap.String("presale_id", snowflake.ID(item.ID).String()))

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, s.db, item.ID); err != nil {
		return nil, err
	}

	s.log.Info("pre-sale deleted", zap.String("presale_id", snowflake.ID(item.ID).String()))

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	presaleID, err := parseID(id)
	if err != nil {
		return false, err
	}
	return s.repo.Exists(ctx, s.db, presaleID)
}

func (s *Service) ListStatuses(ctx context.Context) ([]domain.CategoryResponse, error) {
	items, err := s.statusRepo.Find(ctx, &domain.Status{}, byName())
	if err != nil {
		return nil, err
	}
	out := make([]domain.CategoryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, category(item.ID, item.Name))
	}
	return out, nil
}

func (s *Service) ListResults(ctx context.Context) ([]domain.CategoryResponse, error) {
	items, err := s.resultRepo.Find(ctx, &domain.Result{}, byName())
	if err != nil {
		return nil, err
	}
	out := make([]domain.CategoryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, category(item.ID, item.Name))
	}
	return out, nil
}

func (s *Service) ListRegions(ctx context.Context) ([]domain.CategoryResponse, error) {
	items, err := s.regionRepo.Find(ctx, &domain.Region{}, byName())
	if err != nil {
		return nil, err
	}
	out := make([]domain.CategoryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, category(item.ID, item.Name))
	}
	return out, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.PreSale, error) {
	presaleID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, s.db, presaleID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) fromRequest(ctx context.Context, req domain.Request) (*domain.PreSale, error) {
	organization := strings.TrimSpace(req.Organization)
	if organization == "" {
		return nil, domain.ErrInvalidOrganization
	}

	groupID, err := parseRequiredID(req.GroupID, domain.ErrInvalidGroup)
	if err != nil {
		return nil, err
	}
	statusID, err := parseRequiredID(req.StatusID, domain.ErrInvalidStatus)
	if err != nil {
		return nil, err
	}
	resultID, err := parseRequiredID(req.ResultID, domain.ErrInvalidResult)
	if err != nil {
		return nil, err
	}
	regionID, err := parseOptionalID(req.RegionID)
	if err != nil {
		return nil, err
	}
	responsibleID, err := parseOptionalID(req.ResponsibleUserID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.GroupExists(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrInvalidGroup
	}
	if err := s.checkReferences(ctx, statusID, resultID, regionID); err != nil {
		return nil, err
	}

	return &domain.PreSale{
		GroupID:           groupID,
		StatusID:          statusID,
		ResultID:          resultID,
		RegionID:          regionID,
		Organization:      organization,
		ResponsibleUserID: responsibleID,
	}, nil
}

// checkReferences rejects category ids that do not exist. Dialects migrated without
// foreign keys would otherwise store them silently.
func (s *Service) checkReferences(ctx context.Context, statusID, resultID int64, regionID *int64) error {
	if err := requireRow(ctx, s.statusRepo, &domain.Status{ID: statusID}, domain.ErrInvalidStatus); err != nil {
		return err
	}
	if err := requireRow(ctx, s.resultRepo, &domain.Result{ID: resultID}, domain.ErrInvalidResult); err != nil {
		return err
	}
	if regionID != nil {
		return requireRow(ctx, s.regionRepo, &domain.Region{ID: *regionID}, domain.ErrInvalidRegion)
	}
	return nil
}

func requireRow[T any](ctx context.Context, store repository.Repository[T], query *T, missing error) error {
	exists, err := store.Exists(ctx, query)
	if err != nil {
		return err
	}
	if !exists {
		return missing
	}
	return nil
}

func (s *Service) mapWriteErr(err error) error {
	if db.IsForeignKeyErr(err) {
		return domain.ErrInvalidReference
	}
	return err
}

func parseID(raw string) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id.Int64(), nil
}

func parseRequiredID(raw string, invalid error) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id.Int64(), nil
}

func parseOptionalID(raw *string) (*int64, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := parseID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func byName() option.QueryOption {
	return option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"name": true}})
}

func category(id int64, name string) domain.CategoryResponse {
	return domain.CategoryResponse{ID: snowflake.ID(id).String(), Name: name}
}

func toResponses(items []domain.PreSale) []domain.Response {
	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp
}

func toResponse(p *domain.PreSale) domain.Response {
	return domain.Response{
		ID:                snowflake.ID(p.ID).String(),
		GroupID:           snowflake.ID(p.GroupID).String(),
		StatusID:          snowflake.ID(p.StatusID).String(),
		ResultID:          snowflake.ID(p.ResultID).String(),
		RegionID:          idString(p.RegionID),
		Organization:      p.Organization,
		ResponsibleUserID: idString(p.ResponsibleUserID),
		CreatedAt:         p.CreatedAt,
		ChangedAt:         p.ChangedAt,
	}
}

func idString(id *int64) *string {
	if id == nil {
		return nil
	}
	s := snowflake.ID(*id).String()
	return &s
}
