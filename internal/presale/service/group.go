package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	departmentdomain "github.com/smallbiznis/crmlite/internal/department/domain"
	"github.com/smallbiznis/crmlite/internal/presale/domain"
	reportdomain "github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/smallbiznis/crmlite/pkg/db"
	"go.uber.org/zap"
)

func (s *Service) ListGroups(ctx context.Context) ([]domain.GroupResponse, error) {
	groups, err := s.repo.ListGroups(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.GroupResponse, 0, len(groups))
	for i := range groups {
		resp = append(resp, toGroupResponse(&groups[i]))
	}
	return resp, nil
}

func (s *Service) GetGroup(ctx context.Context, id string) (*domain.GroupResponse, error) {
	group, err := s.findGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toGroupResponse(group)
	return &resp, nil
}

func (s *Service) ListGroupStatuses(ctx context.Context) ([]domain.CategoryResponse, error) {
	items, err := s.groupStatusRepo.Find(ctx, &domain.GroupStatus{}, byName())
	if err != nil {
		return nil, err
	}
	out := make([]domain.CategoryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, category(item.ID, item.Name))
	}
	return out, nil
}

func (s *Service) CreateGroup(ctx context.Context, req domain.GroupRequest) (*domain.GroupResponse, error) {
	group, err := s.groupFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	group.ID = s.genID.Generate().Int64()
	group.CreatedAt = now
	group.ChangedAt = now

	if err := s.repo.InsertGroup(ctx, s.db, group); err != nil {
		return nil, s.mapWriteErr(err)
	}

	s.log.Info("pre-sale group created",
		zap.String("name", group.Name),
		zap.String("group_id", snowflake.ID(group.ID).String()),
	)

	resp := toGroupResponse(group)
	return &resp, nil
}

func (s *Service) UpdateGroup(ctx context.Context, id string, req domain.GroupRequest) (*domain.GroupResponse, error) {
	groupID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if bodyID := strings.TrimSpace(req.ID); bodyID != "" && bodyID != snowflake.ID(groupID).String() {
		return nil, domain.ErrIDMismatch
	}

	existing, err := s.repo.FindGroupByID(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrGroupNotFound
	}

	group, err := s.groupFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	group.ID = existing.ID
	group.CreatedAt = existing.CreatedAt
	group.ChangedAt = s.clock.Now().UTC()

	if err := s.repo.UpdateGroup(ctx, s.db, group); err != nil {
		return nil, s.mapWriteErr(err)
	}

	s.log.Info("pre-sale group updated",
		zap.String("name", group.Name),
		zap.String("group_id", snowflake.ID(group.ID).String()),
	)

	resp := toGroupResponse(group)
	return &resp, nil
}

func (s *Service) DeleteGroup(ctx context.Context, id string) (*domain.GroupResponse, error) {
	group, err := s.findGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.CountByGroup(ctx, s.db, group.ID)
	if err != nil {
		return nil, err
	}
	if records > 0 {
		return nil, domain.ErrGroupInUse
	}

	if err := s.repo.DeleteGroup(ctx, s.db, group.ID); err != nil {
		if db.IsForeignKeyErr(err) {
			return nil, domain.ErrGroupInUse
		}
		return nil, err
	}

	s.log.Info("pre-sale group deleted", zap.String("group_id", snowflake.ID(group.ID).String()))

	resp := toGroupResponse(group)
	return &resp, nil
}

func (s *Service) GroupExists(ctx context.Context, id string) (bool, error) {
	groupID, err := parseID(id)
	if err != nil {
		return false, err
	}
	return s.repo.GroupExists(ctx, s.db, groupID)
}

// Report renders the statistics report of one group in the requested format.
func (s *Service) Report(ctx context.Context, groupID string, format string) (*reportdomain.Artifact, error) {
	reportFormat, err := reportdomain.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	id, err := parseID(groupID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.GroupExists(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrGroupNotFound
	}

	return s.reports.BuildReportAs(ctx, id, reportFormat)
}

func (s *Service) findGroup(ctx context.Context, id string) (*domain.Group, error) {
	groupID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	group, err := s.repo.FindGroupByID(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrGroupNotFound
	}
	return group, nil
}

func (s *Service) groupFromRequest(ctx context.Context, req domain.GroupRequest) (*domain.Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	statusID, err := parseRequiredID(req.StatusID, domain.ErrInvalidStatus)
	if err != nil {
		return nil, err
	}
	departmentID, err := parseOptionalID(req.DepartmentID)
	if err != nil {
		return nil, err
	}

	if err := requireRow(ctx, s.groupStatusRepo, &domain.GroupStatus{ID: statusID}, domain.ErrInvalidStatus); err != nil {
		return nil, err
	}
	if departmentID != nil {
		if err := requireRow(ctx, s.departmentRepo, &departmentdomain.Department{ID: *departmentID}, domain.ErrInvalidDepartment); err != nil {
			return nil, err
		}
	}

	return &domain.Group{
		Name:         name,
		StatusID:     statusID,
		DepartmentID: departmentID,
	}, nil
}

func toGroupResponse(g *domain.Group) domain.GroupResponse {
	return domain.GroupResponse{
		ID:           snowflake.ID(g.ID).String(),
		Name:         g.Name,
		StatusID:     snowflake.ID(g.StatusID).String(),
		DepartmentID: idString(g.DepartmentID),
		CreatedAt:    g.CreatedAt,
		ChangedAt:    g.ChangedAt,
	}
}
