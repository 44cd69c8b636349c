package domain

import "context"

type Service interface {
	List(ctx context.Context) ([]Response, error)
	// ListMain returns top-level departments only.
	ListMain(ctx context.Context) ([]Response, error)
}

type Response struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}
