package processor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weather-bot/internal/domain/entity"
	"weather-bot/internal/domain/model"
	"weather-bot/internal/domain/usecase/weather"
	"weather-bot/pkg/msg"
)

type fakeWeather struct {
	summary *entity.WeatherSummary
	err     error
	places  []string
}

func (f *fakeWeather) Assemble(_ context.Context, place string) (*entity.WeatherSummary, error) {
	f.places = append(f.places, place)
	return f.summary, f.err
}

type fakeSender struct {
	replies []model.Reply
	err     error
}

func (f *fakeSender) Send(_ context.Context, reply model.Reply) error {
	f.replies = append(f.replies, reply)
	return f.err
}

type fakeLimiter struct {
	allowed bool
	err     error
}

func (f fakeLimiter) Allow(context.Context, int64) (bool, error) { return f.allowed, f.err }

type fakePublisher struct {
	events []model.QueryEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event model.QueryEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) Health(context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{Status: model.StatusUp}
}

type fixture struct {
	weather   *fakeWeather
	sender    *fakeSender
	publisher *fakePublisher
	catalog   *msg.Catalog
	processor *ChatProcessor
}

func newFixture(t *testing.T, limiter fakeLimiter) *fixture {
	t.Helper()
	catalog, err := msg.Load("../../../configs/messages.yml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	f := &fixture{
		weather:   &fakeWeather{summary: sampleSummary()},
		sender:    &fakeSender{},
		publisher: &fakePublisher{},
		catalog:   catalog,
	}
	f.processor = NewChatProcessor(f.weather, catalog, f.sender, ChatProcessorOptions{
		Limiter:   limiter,
		Publisher: f.publisher,
	})
	return f
}

func sampleSummary() *entity.WeatherSummary {
	now := time.Date(2023, 6, 17, 15, 53, 0, 0, time.UTC)
	return &entity.WeatherSummary{
		Place:     "Berlin",
		LocalTime: now,
		Current:   entity.CurrentConditions{DetailedStatus: "ясно", TemperatureC: 20.4, FeelsLikeC: 19.8, VisibilityKM: 10},
		Sun:       entity.SunTimes{SunriseLocal: now, SunsetLocal: now},
		Forecast:  entity.ForecastAggregate{TempMinC: 18, TempMaxC: 22, DominantAdjective: "ясная"},
	}
}

func textMessage(text string) model.InboundMessage {
	return model.ParseInbound(7, 42, text)
}

func TestGreetingIsAReply(t *testing.T) {
	for _, text := range []string{"/start", "/help", "/start@weather_bot"} {
		f := newFixture(t, fakeLimiter{allowed: true})
		if err := f.processor.HandleMessage(context.Background(), textMessage(text)); err != nil {
			t.Fatalf("%s: %v", text, err)
		}

		if len(f.sender.replies) != 1 {
			t.Fatalf("%s: replies = %d", text, len(f.sender.replies))
		}
		reply := f.sender.replies[0]
		if reply.ChatID != 7 || reply.ReplyToMessageID != 42 || reply.Text != f.catalog.GetMessage("bot.greeting") {
			t.Errorf("%s: reply = %+v", text, reply)
		}
		if len(f.weather.places) != 0 || len(f.publisher.events) != 0 {
			t.Errorf("%s: greeting must not query the provider", text)
		}
	}
}

func TestPlaceQuerySendsSummary(t *testing.T) {
	f := newFixture(t, fakeLimiter{allowed: true})
	if err := f.processor.HandleMessage(context.Background(), textMessage("  Berlin ")); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if len(f.weather.places) != 1 || f.weather.places[0] != "Berlin" {
		t.Fatalf("places = %v", f.weather.places)
	}
	reply := f.sender.replies[0]
	if reply.ReplyToMessageID != 0 {
		t.Errorf("summary must be a plain message, got reply to %d", reply.ReplyToMessageID)
	}
	if !strings.HasPrefix(reply.Text, "В городе Berlin сейчас - ясно.") {
		t.Errorf("text = %q", reply.Text)
	}

	event := f.publisher.events[0]
	if event.Outcome != model.OutcomeOK || event.Place != "Berlin" || event.ChatID != 7 || event.RequestID == "" || event.OccurredAt.IsZero() {
		t.Errorf("event = %+v", event)
	}
}

func TestUnknownCommandIsAPlaceQuery(t *testing.T) {
	f := newFixture(t, fakeLimiter{allowed: true})
	_ = f.processor.HandleMessage(context.Background(), textMessage("/weather"))

	if len(f.weather.places) != 1 || f.weather.places[0] != "/weather" {
		t.Fatalf("places = %v", f.weather.places)
	}
}

func TestAssemblyErrorsMapToTwoMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKey     string
		wantOutcome model.QueryOutcome
	}{
		{name: "not found", err: weather.ErrNotFound, wantKey: "bot.not-found", wantOutcome: model.OutcomeNotFound},
		{name: "provider", err: weather.ErrProvider, wantKey: "bot.failure", wantOutcome: model.OutcomeFailed},
		{name: "empty forecast", err: weather.ErrEmptyForecast, wantKey: "bot.failure", wantOutcome: model.OutcomeFailed},
		{name: "timezone", err: weather.ErrTimezoneUnresolved, wantKey: "bot.failure", wantOutcome: model.OutcomeFailed},
		{name: "duration", err: weather.ErrInvalidDuration, wantKey: "bot.failure", wantOutcome: model.OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, fakeLimiter{allowed: true})
			f.weather.summary = nil
			f.weather.err = errors.Join(tt.err, errors.New("detail that must stay internal"))

			if err := f.processor.HandleMessage(context.Background(), textMessage("Atlantis")); err != nil {
				t.Fatalf("HandleMessage: %v", err)
			}

			reply := f.sender.replies[0]
			if reply.Text != f.catalog.GetMessage(tt.wantKey) || reply.ReplyToMessageID != 42 {
				t.Errorf("reply = %+v", reply)
			}
			if strings.Contains(reply.Text, "detail") {
				t.Error("internal detail leaked to the user")
			}
			if got := f.publisher.events[0].Outcome; got != tt.wantOutcome {
				t.Errorf("outcome = %s, want %s", got, tt.wantOutcome)
			}
		})
	}
}

func TestThrottledChatSkipsProvider(t *testing.T) {
	f := newFixture(t, fakeLimiter{allowed: false})
	if err := f.processor.HandleMessage(context.Background(), textMessage("Berlin")); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if len(f.weather.places) != 0 {
		t.Fatal("provider queried for a throttled chat")
	}
	if f.sender.replies[0].Text != f.catalog.GetMessage("bot.throttled") {
		t.Errorf("reply = %q", f.sender.replies[0].Text)
	}
	if f.publisher.events[0].Outcome != model.OutcomeThrottled {
		t.Errorf("outcome = %s", f.publisher.events[0].Outcome)
	}
}

func TestLimiterErrorFailsOpen(t *testing.T) {
	f := newFixture(t, fakeLimiter{err: errors.New("redis down")})
	_ = f.processor.HandleMessage(context.Background(), textMessage("Berlin"))

	if len(f.weather.places) != 1 {
		t.Fatal("limiter failure must not block the query")
	}
}

func TestDeliveryAndPublishFailures(t *testing.T) {
	f := newFixture(t, fakeLimiter{allowed: true})
	f.sender.err = errors.New("chat not found")
	if err := f.processor.HandleMessage(context.Background(), textMessage("Berlin")); err == nil {
		t.Fatal("expected delivery error")
	}

	f = newFixture(t, fakeLimiter{allowed: true})
	f.publisher.err = errors.New("queue missing")
	if err := f.processor.HandleMessage(context.Background(), textMessage("Berlin")); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
}

func TestHandleUpdateIgnoresNonText(t *testing.T) {
	f := newFixture(t, fakeLimiter{allowed: true})

	updates := []tgbotapi.Update{
		{UpdateID: 1},
		{UpdateID: 2, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}}},
		{UpdateID: 3, EditedMessage: &tgbotapi.Message{Text: "Berlin", Chat: &tgbotapi.Chat{ID: 7}}},
	}
	for _, update := range updates {
		if err := f.processor.HandleUpdate(context.Background(), update); err != nil {
			t.Fatalf("update %d: %v", update.UpdateID, err)
		}
	}
	if len(f.sender.replies) != 0 {
		t.Fatalf("replies = %v", f.sender.replies)
	}

	err := f.processor.HandleUpdate(context.Background(), tgbotapi.Update{
		UpdateID: 4,
		Message:  &tgbotapi.Message{MessageID: 9, Text: "/start", Chat: &tgbotapi.Chat{ID: 7}},
	})
	if err != nil || len(f.sender.replies) != 1 || f.sender.replies[0].ReplyToMessageID != 9 {
		t.Fatalf("start update: err=%v replies=%v", err, f.sender.replies)
	}
}
