package processor

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"weather-bot/internal/application/presenter"
	"weather-bot/internal/domain/gateway/chat"
	"weather-bot/internal/domain/gateway/limiter"
	"weather-bot/internal/domain/gateway/queue"
	"weather-bot/internal/domain/model"
	"weather-bot/internal/domain/usecase/weather"
	"weather-bot/pkg/log"
	"weather-bot/pkg/msg"
)

// ChatProcessor turns inbound chat messages into replies. It is the only place
// assembly errors become user-visible text.
type ChatProcessor struct {
	weatherUseCase   weather.UseCase
	presenter        *presenter.WeatherPresenter
	catalog          presenter.Catalog
	sender           chat.Sender
	limiter          limiter.ChatLimiter
	publisher        queue.QueryEventPublisher
	greetingCommands map[string]struct{}
	clock            func() time.Time
}

type ChatProcessorOptions struct {
	// GreetingCommands are answered with the greeting; defaults to start and help
	GreetingCommands []string
	// Limiter defaults to no throttling
	Limiter limiter.ChatLimiter
	// Publisher defaults to dropping events
	Publisher queue.QueryEventPublisher
}

func NewChatProcessor(weatherUseCase weather.UseCase, catalog presenter.Catalog, sender chat.Sender, opts ChatProcessorOptions) *ChatProcessor {
	commands := opts.GreetingCommands
	if len(commands) == 0 {
		commands = []string{"start", "help"}
	}
	greetings := make(map[string]struct{}, len(commands))
	for _, command := range commands {
		greetings[strings.ToLower(strings.TrimPrefix(command, "/"))] = struct{}{}
	}
	if opts.Limiter == nil {
		opts.Limiter = limiter.NewUnlimited()
	}
	if opts.Publisher == nil {
		opts.Publisher = queue.NewNoopPublisher()
	}

	return &ChatProcessor{
		weatherUseCase:   weatherUseCase,
		presenter:        presenter.NewWeatherPresenter(catalog),
		catalog:          catalog,
		sender:           sender,
		limiter:          opts.Limiter,
		publisher:        opts.Publisher,
		greetingCommands: greetings,
		clock:            time.Now,
	}
}

// HandleUpdate implements the telegram.Handler interface. Updates without message text are ignored.
func (p *ChatProcessor) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	message := update.Message
	if message == nil || message.Chat == nil || message.Text == "" {
		return nil
	}
	return p.HandleMessage(ctx, model.ParseInbound(message.Chat.ID, message.MessageID, message.Text))
}

// HandleMessage dispatches on the message shape. The returned error only reports
// a reply that could not be delivered.
func (p *ChatProcessor) HandleMessage(ctx context.Context, inbound model.InboundMessage) error {
	if inbound.Kind == model.InboundCommand {
		if _, ok := p.greetingCommands[inbound.Command]; ok {
			return p.reply(ctx, inbound, p.catalog.GetMessage("bot.greeting"))
		}
	}
	return p.handlePlaceQuery(ctx, inbound)
}

func (p *ChatProcessor) handlePlaceQuery(ctx context.Context, inbound model.InboundMessage) error {
	requestID := uuid.New().String()
	place := inbound.Text
	logger := log.With(
		zap.String("request_id", requestID),
		zap.Int64("chat_id", inbound.ChatID),
		zap.String("place", place),
	)
	logger.Info(msg.GetMessage("log.query-received", place, inbound.ChatID))

	event := model.QueryEvent{RequestID: requestID, ChatID: inbound.ChatID, Place: place}
	defer func() { p.publish(ctx, event, logger) }()

	if !p.allow(ctx, inbound.ChatID, logger) {
		logger.Info(msg.GetMessage("log.query-throttled", inbound.ChatID))
		event.Outcome = model.OutcomeThrottled
		return p.reply(ctx, inbound, p.catalog.GetMessage("bot.throttled"))
	}

	summary, err := p.weatherUseCase.Assemble(ctx, place)
	switch {
	case err == nil:
		event.Outcome = model.OutcomeOK
		logger.Info(msg.GetMessage("log.query-answered", place))
		return p.send(ctx, model.Reply{ChatID: inbound.ChatID, Text: p.presenter.Format(summary)})

	case errors.Is(err, weather.ErrNotFound):
		event.Outcome = model.OutcomeNotFound
		logger.Warn(msg.GetMessage("log.query-not-found", place), zap.Error(err))
		return p.reply(ctx, inbound, p.catalog.GetMessage("bot.not-found"))

	default:
		event.Outcome = model.OutcomeFailed
		event.Error = err.Error()
		logger.Error(msg.GetMessage("log.query-failed", place, err), zap.Error(err))
		return p.reply(ctx, inbound, p.catalog.GetMessage("bot.failure"))
	}
}

// allow fails open: a limiter error is logged and the query goes through
func (p *ChatProcessor) allow(ctx context.Context, chatID int64, logger *zap.Logger) bool {
	allowed, err := p.limiter.Allow(ctx, chatID)
	if err != nil {
		logger.Warn(msg.GetMessage("log.limiter-failed", chatID, err), zap.Error(err))
		return true
	}
	return allowed
}

func (p *ChatProcessor) reply(ctx context.Context, inbound model.InboundMessage, text string) error {
	return p.send(ctx, model.Reply{ChatID: inbound.ChatID, ReplyToMessageID: inbound.MessageID, Text: text})
}

func (p *ChatProcessor) send(ctx context.Context, reply model.Reply) error {
	if err := p.sender.Send(ctx, reply); err != nil {
		log.Error(msg.GetMessage("log.reply-failed", reply.ChatID, err), zap.Error(err))
		return err
	}
	return nil
}

func (p *ChatProcessor) publish(ctx context.Context, event model.QueryEvent, logger *zap.Logger) {
	event.OccurredAt = p.clock().UTC()
	if err := p.publisher.Publish(ctx, event); err != nil {
		logger.Warn(msg.GetMessage("log.event-publish-failed", event.RequestID, err), zap.Error(err))
	}
}
