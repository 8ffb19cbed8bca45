package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/utils/response"
	"cinebook/pkg/logger"
)

type Controller struct {
	service  Service
	verifier *WebhookVerifier
	logger   *logger.Logger
}

func NewController(service Service, verifier *WebhookVerifier) *Controller {
	return &Controller{
		service:  service,
		verifier: verifier,
		logger:   logger.GetDefault(),
	}
}

// HandleClerkWebhook verifies and applies an identity event. Unknown event
// types are acknowledged so the sender does not retry them forever.
func (c *Controller) HandleClerkWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to read request body", nil, err.Error())
		return
	}

	err = c.verifier.Verify(
		ctx.GetHeader("svix-id"),
		ctx.GetHeader("svix-timestamp"),
		ctx.GetHeader("svix-signature"),
		payload,
	)
	if err != nil {
		c.logger.WarnContext(ctx.Request.Context(), "Rejected webhook delivery", "error", err.Error())
		switch {
		case errors.Is(err, ErrMissingHeaders):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Missing signature headers", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Signature verification failed", nil, nil)
		}
		return
	}

	var event ClerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event payload", nil, err.Error())
		return
	}

	if err := c.service.HandleEvent(ctx.Request.Context(), &event); err != nil {
		if errors.Is(err, ErrUnsupportedEvent) {
			response.RespondJSON(ctx, "success", http.StatusOK, "Event ignored", gin.H{"type": event.Type}, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to process event", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Event processed", gin.H{"type": event.Type}, nil)
}
