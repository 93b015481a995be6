package audit

import (
	"github.com/carelinkhq/carelink/internal/audit/repository"
	"github.com/carelinkhq/carelink/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
