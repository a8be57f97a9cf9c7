package postgres

import (
	"time"

	"spotted/contexts/community-experience/user-settings/ports"
)

type SystemClock struct{}

var _ ports.Clock = SystemClock{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
