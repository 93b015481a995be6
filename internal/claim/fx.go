package claim

import (
	"github.com/carelinkhq/carelink/internal/claim/repository"
	"github.com/carelinkhq/carelink/internal/claim/service"
	"go.uber.org/fx"
)

var Module = fx.Module("claim",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
