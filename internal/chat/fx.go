package chat

import (
	"github.com/carelinkhq/carelink/internal/chat/liveevents"
	"github.com/carelinkhq/carelink/internal/chat/repository"
	"github.com/carelinkhq/carelink/internal/chat/service"
	"go.uber.org/fx"
)

var Module = fx.Module("chat",
	fx.Provide(
		liveevents.NewHub,
		repository.Provide,
		service.New,
	),
)
