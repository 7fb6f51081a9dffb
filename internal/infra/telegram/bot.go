package telegram

import (
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weather-bot/pkg/log"
	"weather-bot/pkg/msg"
)

// BotConfig holds the Bot API connection settings
type BotConfig struct {
	Token string
	// APIEndpoint is a format string taking the token and the method name
	APIEndpoint string
	Debug       bool
	// HTTPClient carries the request timeout; it must outlast the long-poll timeout
	HTTPClient *http.Client
}

// NewBotAPI connects to the Bot API; construction calls getMe, so a bad token fails here
func NewBotAPI(config BotConfig) (*tgbotapi.BotAPI, error) {
	endpoint := config.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(config.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram bot api: %w", err)
	}
	bot.Debug = config.Debug

	log.Infof("Authorized on telegram account %s", bot.Self.UserName)
	return bot, nil
}

// Requester is the part of *tgbotapi.BotAPI used to manage the webhook
type Requester interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// WebhookURL joins the public base URL, the server context path and the secret route
func WebhookURL(baseURL, contextPath, secret string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.Trim(contextPath, "/") + "/telegram/webhook/" + secret
}

// RegisterWebhook points Telegram at url
func RegisterWebhook(bot Requester, url string) error {
	webhook, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := bot.Request(webhook); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	log.Info(msg.GetMessage("log.webhook-registered", redactSecret(url)))
	return nil
}

// DeleteWebhook removes any registered webhook; getUpdates fails while one is set
func DeleteWebhook(bot Requester) error {
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

func redactSecret(url string) string {
	if index := strings.LastIndex(url, "/"); index >= 0 {
		return url[:index+1] + "***"
	}
	return url
}
