package department

import (
	"github.com/smallbiznis/crmlite/internal/department/service"
	"go.uber.org/fx"
)

var Module = fx.Module("department.service",
	fx.Provide(service.New),
)
