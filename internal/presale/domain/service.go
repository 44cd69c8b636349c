package domain

import (
	"context"
	"errors"
	"time"

	reportdomain "github.com/smallbiznis/crmlite/internal/report/domain"
)

type Service interface {
	List(ctx context.Context) ([]Response, error)
	ListByGroup(ctx context.Context, groupID string) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Create(ctx context.Context, req Request) (*Response, error)
	Update(ctx context.Context, id string, req Request) (*Response, error)
	Delete(ctx context.Context, id string) (*Response, error)
	Exists(ctx context.Context, id string) (bool, error)

	ListStatuses(ctx context.Context) ([]CategoryResponse, error)
	ListResults(ctx context.Context) ([]CategoryResponse, error)
	ListRegions(ctx context.Context) ([]CategoryResponse, error)

	ListGroups(ctx context.Context) ([]GroupResponse, error)
	GetGroup(ctx context.Context, id string) (*GroupResponse, error)
	ListGroupStatuses(ctx context.Context) ([]CategoryResponse, error)
	CreateGroup(ctx context.Context, req GroupRequest) (*GroupResponse, error)
	UpdateGroup(ctx context.Context, id string, req GroupRequest) (*GroupResponse, error)
	DeleteGroup(ctx context.Context, id string) (*GroupResponse, error)
	GroupExists(ctx context.Context, id string) (bool, error)

	Report(ctx context.Context, groupID string, format string) (*reportdomain.Artifact, error)
}

type Request struct {
	ID                string  `json:"id"`
	GroupID           string  `json:"group_id"`
	StatusID          string  `json:"status_id"`
	ResultID          string  `json:"result_id"`
	RegionID          *string `json:"region_id"`
	Organization      string  `json:"organization"`
	ResponsibleUserID *string `json:"responsible_user_id"`
}

type Response struct {
	ID                string    `json:"id"`
	GroupID           string    `json:"group_id"`
	StatusID          string    `json:"status_id"`
	ResultID          string    `json:"result_id"`
	RegionID          *string   `json:"region_id,omitempty"`
	Organization      string    `json:"organization"`
	ResponsibleUserID *string   `json:"responsible_user_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	ChangedAt         time.Time `json:"changed_at"`
}

type GroupRequest struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	StatusID     string  `json:"status_id"`
	DepartmentID *string `json:"department_id"`
}

type GroupResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StatusID     string    `json:"status_id"`
	DepartmentID *string   `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ChangedAt    time.Time `json:"changed_at"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var (
	ErrNotFound            = errors.New("not_found")
	ErrGroupNotFound       = errors.New("group_not_found")
	ErrInvalidID           = errors.New("invalid_id")
	ErrIDMismatch          = errors.New("id_mismatch")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidGroup        = errors.New("invalid_group")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidResult       = errors.New("invalid_result")
	ErrInvalidRegion       = errors.New("invalid_region")
	ErrInvalidDepartment   = errors.New("invalid_department")
	ErrInvalidReference    = errors.New("invalid_reference")
	ErrGroupInUse          = errors.New("group_in_use")
)
