package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/crmlite/internal/clock"
	"github.com/smallbiznis/crmlite/internal/config"
	"github.com/smallbiznis/crmlite/internal/observability/metrics"
	"github.com/smallbiznis/crmlite/internal/observability/tracing"
	"github.com/smallbiznis/crmlite/internal/report/chart"
	"github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/smallbiznis/crmlite/internal/report/layout"
	"github.com/smallbiznis/crmlite/internal/report/stats"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const filenamePrefix = "Отчет по Pre-sale-рассылкам на "

type Params struct {
	fx.In

	Log       *zap.Logger
	Source    domain.Source
	Clock     clock.Clock
	Config    *config.ReportConfigHolder `optional:"true"`
	Metrics   *metrics.Metrics           `optional:"true"`
	Renderers []domain.Renderer          `group:"report.renderers"`
}

type Service struct {
	log       *zap.Logger
	source    domain.Source
	clock     clock.Clock
	config    *config.ReportConfigHolder
	metrics   *metrics.Metrics
	renderers map[domain.Format]domain.Renderer
}

func New(p Params) domain.Service {
	renderers := make(map[domain.Format]domain.Renderer, len(p.Renderers))
	for _, r := range p.Renderers {
		renderers[r.Format()] = r
	}
	return &Service{
		log:       p.Log.Named("report.service"),
		source:    p.Source,
		clock:     p.Clock,
		config:    p.Config,
		metrics:   p.Metrics,
		renderers: renderers,
	}
}

// Filename names a report generated at now, e.g. "Отчет по Pre-sale-рассылкам на 7.3.2024.xlsx".
func Filename(now time.Time, format domain.Format) string {
	return filenamePrefix + layout.FormatDate(now) + "." + string(format)
}

func (s *Service) BuildReport(ctx context.Context, groupID int64) (*domain.Artifact, error) {
	return s.BuildReportAs(ctx, groupID, domain.FormatXLSX)
}

func (s *Service) BuildReportAs(ctx context.Context, groupID int64, format domain.Format) (*domain.Artifact, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}

	ctx, span := tracing.StartSpan(ctx, "report", "report.build",
		attribute.Int64("group_id", groupID),
		attribute.String("format", string(format)),
	)
	start := time.Now()
	artifact, records, err := s.build(ctx, groupID, renderer)
	tracing.EndSpan(span, err)

	if err != nil {
		s.metrics.RecordReportFailed(ctx, string(format), failureReason(err))
		if errors.Is(err, domain.ErrMissingReferenceCategory) {
			s.log.Error("report reference data incomplete", zap.Int64("group_id", groupID), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.RecordReportGenerated(ctx, string(format), records, time.Since(start))
	s.log.Info("report generated",
		zap.Int64("group_id", groupID),
		zap.String("format", string(format)),
		zap.Int("records", records),
		zap.Int("bytes", len(artifact.Bytes)),
	)
	return artifact, nil
}

func (s *Service) build(ctx context.Context, groupID int64, renderer domain.Renderer) (*domain.Artifact, int, error) {
	group, err := s.source.FindGroup(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}
	if group == nil {
		return nil, 0, domain.ErrGroupNotFound
	}

	records, err := s.source.ListRecords(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}
	statuses, err := s.source.ListStatuses(ctx)
	if err != nil {
		return nil, 0, err
	}
	results, err := s.source.ListResults(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	aggregated, err := stats.Aggregate(records, statuses, results)
	if err != nil {
		return nil, 0, err
	}

	cfg := s.config.Get()
	now := s.clock.Now().In(cfg.Location())

	grid := layout.Build(aggregated, group.Name, now)
	charts, err := chart.Build(grid, chart.WithSize(cfg.Chart.Width, cfg.Chart.Height))
	if err != nil {
		return nil, 0, err
	}

	data, err := renderer.Render(domain.Document{
		Title:  group.Name,
		Date:   now,
		Grid:   grid,
		Charts: charts[:],
	})
	if err != nil {
		return nil, 0, fmt.Errorf("render %s: %w", renderer.Format(), err)
	}

	return &domain.Artifact{
		Bytes:       data,
		Filename:    Filename(now, renderer.Format()),
		ContentType: renderer.ContentType(),
		Format:      renderer.Format(),
	}, len(records), nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrGroupNotFound):
		return "group_not_found"
	case errors.Is(err, domain.ErrMissingReferenceCategory):
		return "missing_reference_category"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
