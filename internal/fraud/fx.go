package fraud

import (
	"github.com/carelinkhq/carelink/internal/fraud/scorer"
	"github.com/carelinkhq/carelink/internal/fraud/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fraud.service",
	fx.Provide(scorer.NewOpenAIScorer),
	fx.Provide(service.New),
)
