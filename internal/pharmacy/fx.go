package pharmacy

import (
	"github.com/carelinkhq/carelink/internal/pharmacy/repository"
	"github.com/carelinkhq/carelink/internal/pharmacy/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pharmacy",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
