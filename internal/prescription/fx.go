package prescription

import (
	"github.com/carelinkhq/carelink/internal/prescription/repository"
	"github.com/carelinkhq/carelink/internal/prescription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("prescription",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
