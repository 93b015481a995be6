package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the server time used to stamp records. Client clocks are
// never trusted for ordering.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystem() Clock {
	return systemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
