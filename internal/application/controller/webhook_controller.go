package controller

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"weather-bot/pkg/log"
	"weather-bot/pkg/telegram"
)

// WebhookPath is the route Telegram posts updates to, relative to the API group
const WebhookPath = "/telegram/webhook/:secret"

type WebhookController struct {
	api     *echo.Group
	secret  string
	timeout time.Duration
	handler telegram.Handler
}

// NewWebhookController bounds each update by timeout instead of the request lifetime
func NewWebhookController(api *echo.Group, secret string, timeout time.Duration, handler telegram.Handler) *WebhookController {
	return &WebhookController{api: api, secret: secret, timeout: timeout, handler: handler}
}

// InitWebhookRoutes initializes the Telegram webhook route
func (controller *WebhookController) InitWebhookRoutes() {
	controller.api.POST(WebhookPath, controller.ReceiveUpdate())
}

// ReceiveUpdate handles one update synchronously. Telegram redelivers anything
// that is not answered with 2xx, so handling failures still answer 200.
func (controller *WebhookController) ReceiveUpdate() echo.HandlerFunc {
	return func(c echo.Context) error {
		if subtle.ConstantTimeCompare([]byte(c.Param("secret")), []byte(controller.secret)) != 1 {
			return echo.NewHTTPError(http.StatusNotFound)
		}

		var update tgbotapi.Update
		if err := c.Bind(&update); err != nil {
			log.Warn("discarding undecodable telegram update", zap.Error(err))
			return c.NoContent(http.StatusOK)
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), controller.timeout)
		defer cancel()

		if err := controller.handler.HandleUpdate(ctx, update); err != nil {
			log.Error("error processing webhook update", zap.Int("update_id", update.UpdateID), zap.Error(err))
		}
		return c.NoContent(http.StatusOK)
	}
}
