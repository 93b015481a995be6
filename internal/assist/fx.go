package assist

import (
	"github.com/carelinkhq/carelink/internal/assist/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assist",
	fx.Provide(
		service.New,
	),
)
