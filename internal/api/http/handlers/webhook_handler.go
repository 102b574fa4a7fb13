package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/AaronAmha/HomeManagement/internal/observability"
	"github.com/AaronAmha/HomeManagement/internal/service"
	"github.com/AaronAmha/HomeManagement/internal/sms"
)

// ReplayChecker reports whether a webhook delivery id was already
// processed. Backed by the Redis MessageDeduper in production.
type ReplayChecker interface {
	Seen(ctx context.Context, sid string) (bool, error)
}

// WebhookHandler receives inbound SMS webhooks. The provider protocol
// requires HTTP 200 with a TwiML body for every business outcome, so
// this handler converts every failure, including panics, into a canned
// reply rather than an error status.
type WebhookHandler struct {
	intake  *service.IntakeService
	deduper ReplayChecker
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(intake *service.IntakeService, deduper ReplayChecker, logger *zap.Logger, metrics *observability.Metrics) *WebhookHandler {
	return &WebhookHandler{intake: intake, deduper: deduper, logger: logger, metrics: metrics}
}

// HandleInbound POST /webhooks/sms.
func (h *WebhookHandler) HandleInbound(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic in webhook handler", zap.Any("panic", r))
			h.metrics.RecordIntake(observability.IntakeOutcomeError)
			err = respondTwiML(c, sms.RenderReply(service.ErrorReply))
		}
	}()

	from := strings.TrimSpace(c.FormValue("From"))
	body := strings.TrimSpace(c.FormValue("Body"))
	if from == "" || body == "" {
		h.metrics.RecordIntake(observability.IntakeOutcomeEmptyMessage)
		return respondTwiML(c, sms.RenderReply(service.EmptyMessageReply))
	}

	// Providers retry slow webhooks; a replayed MessageSid gets an
	// empty TwiML body so the tenant is not double-texted.
	if sid := c.FormValue("MessageSid"); sid != "" && h.deduper != nil {
		seen, dedupErr := h.deduper.Seen(c.UserContext(), sid)
		if dedupErr != nil {
			h.logger.Warn("webhook dedup check failed", zap.Error(dedupErr), zap.String("sid", sid))
		} else if seen {
			h.metrics.RecordIntake(observability.IntakeOutcomeDuplicate)
			return respondTwiML(c, sms.RenderEmpty())
		}
	}

	reply, procErr := h.intake.ProcessInbound(c.UserContext(), from, body)
	if procErr != nil {
		h.logger.Error("intake flow failed", zap.Error(procErr), zap.String("from", from))
		h.metrics.RecordIntake(observability.IntakeOutcomeError)
		reply = service.ErrorReply
	}
	return respondTwiML(c, sms.RenderReply(reply))
}

func respondTwiML(c *fiber.Ctx, body string) error {
	c.Set(fiber.HeaderContentType, "text/xml")
	return c.Status(fiber.StatusOK).SendString(body)
}
