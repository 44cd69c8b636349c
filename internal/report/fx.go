package report

import (
	"github.com/smallbiznis/crmlite/internal/report/domain"
	"github.com/smallbiznis/crmlite/internal/report/render"
	"github.com/smallbiznis/crmlite/internal/report/repository"
	"github.com/smallbiznis/crmlite/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(
		fx.Annotate(render.NewXLSX, fx.As(new(domain.Renderer)), fx.ResultTags(`group:"report.renderers"`)),
		fx.Annotate(render.NewPDFFromConfig, fx.As(new(domain.Renderer)), fx.ResultTags(`group:"report.renderers"`)),
	),
	fx.Provide(service.New),
)
