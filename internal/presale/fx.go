package presale

import (
	"github.com/smallbiznis/crmlite/internal/presale/repository"
	"github.com/smallbiznis/crmlite/internal/presale/service"
	"go.uber.org/fx"
)

var Module = fx.Module("presale.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
