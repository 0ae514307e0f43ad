package stripewebhooks

import (
	"errors"
	"io"
	"net/http"

	"ecobrinca/internal/apperr"
	"ecobrinca/internal/domain/billing"
	stripeinfra "ecobrinca/internal/infra/stripe"
	"ecobrinca/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 65536

// ParseFunc verifies and decodes a webhook delivery.
type ParseFunc func(payload []byte, sigHeader, secret string) (billing.SubscriptionEvent, error)

type Handler struct {
	reconciler *billing.Reconciler
	secret     string
	parse      ParseFunc
}

func NewHandler(reconciler *billing.Reconciler, secret string) *Handler {
	return &Handler{
		reconciler: reconciler,
		secret:     secret,
		parse:      stripeinfra.ParseSubscriptionEvent,
	}
}

// StripeWebhook verifies the delivery and hands subscription events to the
// reconciler. Nothing is written unless the signature checks out.
func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		// A retry carries the same body, so answer with a final 4xx.
		log.Warn().Int64("limit", tooLarge.Limit).Msg("stripe webhook body too large")
		metrics.RecordWebhookEvent("unverified", "too_large")
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	ev, err := h.parse(payload, c.GetHeader("Stripe-Signature"), h.secret)
	if err != nil {
		if apperr.Is(err, apperr.KindSignatureInvalid) {
			log.Warn().Err(err).Str("remote_ip", c.ClientIP()).Msg("stripe signature verification failed")
			metrics.RecordWebhookEvent("unverified", "signature_invalid")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
			return
		}
		log.Warn().Err(err).Str("event_id", ev.ID).Msg("malformed stripe event")
		metrics.RecordWebhookEvent(eventLabel(ev.Type), "malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.PublicMessage(err)})
		return
	}

	outcome, err := h.reconciler.Apply(c.Request.Context(), ev)
	if err != nil {
		metrics.RecordWebhookEvent(eventLabel(ev.Type), "error")
		status := apperr.HTTPStatus(apperr.KindOf(err))
		if status >= 500 {
			// Stripe retries on 5xx.
			log.Error().Err(err).Str("event_id", ev.ID).Str("event_type", ev.Type).Msg("stripe event not applied")
		}
		c.JSON(status, gin.H{"error": apperr.PublicMessage(err)})
		return
	}

	metrics.RecordWebhookEvent(eventLabel(ev.Type), string(outcome))
	if outcome == billing.OutcomeIgnored {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received", "outcome": outcome})
}

func eventLabel(eventType string) string {
	if billing.Handles(eventType) {
		return eventType
	}
	return "other"
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
