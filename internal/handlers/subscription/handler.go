package subscription

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/services/subscriptions"
)

const timeoutDuration = 10 * time.Second

const (
	msgSubscribed          = "Subscription successful. Please check your email to confirm."
	msgUnsupportedType     = "Unsupported Content-Type"
	msgDuplicateConfirmed  = "Email already subscribed and confirmed."
	msgDuplicatePending    = "Email already has a pending or confirmed subscription."
	msgServerError         = "Could not process subscription due to a server error."
	msgTokenEmpty          = "Token cannot be empty."
	msgConfirmNotFound     = "Token not found or already used."
	msgConfirmed           = "Subscription confirmed successfully"
	msgAlreadyConfirmed    = "Subscription already confirmed."
	msgUnsubscribeNotFound = "Token not found or subscription already removed."
	msgUnsubscribed        = "Unsubscribed successfully"
)

type subscriber interface {
	Subscribe(ctx context.Context, req models.SubscribeRequest) error
	Confirm(ctx context.Context, token string) (subscriptions.ConfirmResult, error)
	Unsubscribe(ctx context.Context, token string) error
}

type Handler struct {
	service subscriber
	logger  zerolog.Logger
}

func NewHandler(svc subscriber, logger zerolog.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  logger.With().Str("component", "SubscriptionHandler").Logger(),
	}
}

// Subscribe
// @Summary Subscribe to weather updates
// @Description Subscribe an email to receive weather updates for a specific city.
// @Tags subscription
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email address to subscribe"
// @Param city formData string true "City for weather updates"
// @Param frequency formData string true "Frequency of updates" Enums(hourly, daily)
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ValidationResponse
// @Failure 409 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var b binding.Binding
	contentType := c.GetHeader("Content-Type")
	switch {
	case strings.Contains(contentType, binding.MIMEPOSTForm):
		b = binding.Form
	case strings.Contains(contentType, binding.MIMEJSON):
		b = binding.JSON
	default:
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": msgUnsupportedType})
		return
	}

	// An undecodable body leaves fields blank, validation reports them.
	var req models.SubscribeRequest
	if err := c.ShouldBindWith(&req, b); err != nil {
		h.logger.Debug().Err(err).Msg("failed to bind subscribe request")
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	err := h.service.Subscribe(ctx, req)
	var (
		ve *subscriptions.ValidationError
		de *subscriptions.DuplicateEmailError
	)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": msgSubscribed})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"errors": ve.Messages})
	case errors.As(err, &de):
		msg := msgDuplicatePending
		if de.Confirmed {
			msg = msgDuplicateConfirmed
		}
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	default:
		h.logger.Error().Err(err).Msg("subscribe failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
	}
}

// Confirm
// @Summary Confirm email subscription
// @Description Confirms a subscription using the token sent in the confirmation email.
// @Tags subscription
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /confirm/{token} [get]
func (h *Handler) Confirm(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	res, err := h.service.Confirm(ctx, c.Param("token"))
	switch {
	case errors.Is(err, subscriptions.ErrTokenEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgTokenEmpty})
	case errors.Is(err, subscriptions.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgConfirmNotFound})
	case err != nil:
		h.logger.Error().Err(err).Msg("confirm failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
	case res == subscriptions.AlreadyConfirmed:
		c.JSON(http.StatusOK, gin.H{"message": msgAlreadyConfirmed})
	default:
		c.JSON(http.StatusOK, gin.H{"message": msgConfirmed})
	}
}

// Unsubscribe
// @Summary Unsubscribe from weather updates
// @Description Unsubscribes an email from weather updates using the unsubscribe token.
// @Tags subscription
// @Produce json
// @Param token path string true "Unsubscribe token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /unsubscribe/{token} [get]
func (h *Handler) Unsubscribe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	err := h.service.Unsubscribe(ctx, c.Param("token"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": msgUnsubscribed})
	case errors.Is(err, subscriptions.ErrTokenEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgTokenEmpty})
	case errors.Is(err, subscriptions.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgUnsubscribeNotFound})
	default:
		h.logger.Error().Err(err).Msg("unsubscribe failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
	}
}
