package domain

import "context"

// Source loads the data a report is built from.
type Source interface {
	FindGroup(ctx context.Context, groupID int64) (*Group, error)
	ListRecords(ctx context.Context, groupID int64) ([]Record, error)
	ListStatuses(ctx context.Context) ([]Category, error)
	ListResults(ctx context.Context) ([]Category, error)
}

// Renderer serializes a Document into one output format.
type Renderer interface {
	Format() Format
	ContentType() string
	Render(doc Document) ([]byte, error)
}

type Service interface {
	BuildReport(ctx context.Context, groupID int64) (*Artifact, error)
	BuildReportAs(ctx context.Context, groupID int64, format Format) (*Artifact, error)
}
