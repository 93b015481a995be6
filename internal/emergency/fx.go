package emergency

import (
	"github.com/carelinkhq/carelink/internal/emergency/repository"
	"github.com/carelinkhq/carelink/internal/emergency/service"
	"go.uber.org/fx"
)

var Module = fx.Module("emergency",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
