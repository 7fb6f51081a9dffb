package chat

import (
	"context"

	"weather-bot/internal/domain/model"
)

// Sender delivers replies to the chat platform
type Sender interface {
	Send(ctx context.Context, reply model.Reply) error
}
