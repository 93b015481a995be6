package doctor

import (
	"github.com/carelinkhq/carelink/internal/doctor/repository"
	"github.com/carelinkhq/carelink/internal/doctor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("doctor",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
