package alert

import (
	"github.com/carelinkhq/carelink/internal/alert/liveevents"
	"github.com/carelinkhq/carelink/internal/alert/repository"
	"github.com/carelinkhq/carelink/internal/alert/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alert.service",
	fx.Provide(liveevents.NewHub),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
