package appointment

import (
	"github.com/carelinkhq/carelink/internal/appointment/repository"
	"github.com/carelinkhq/carelink/internal/appointment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("appointment",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
