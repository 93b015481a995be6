package llm

import (
	"github.com/carelinkhq/carelink/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.llm",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	if cfg.LLM.APIKey == "" {
		log.Warn("llm api key not configured, model-backed features disabled")
		return &NoOpProvider{}
	}
	return NewOpenAI(cfg.LLM)
}
