package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/AaronAmha/HomeManagement/internal/domain"
	"github.com/AaronAmha/HomeManagement/internal/events"
	"github.com/AaronAmha/HomeManagement/internal/observability"
	"github.com/AaronAmha/HomeManagement/internal/repository"
	"github.com/AaronAmha/HomeManagement/internal/sms"
	"github.com/AaronAmha/HomeManagement/internal/triage"
)

// notifyBodyMaxLen caps the inbound excerpt forwarded to the landlord.
const notifyBodyMaxLen = 140

// IntakeService orchestrates one inbound tenant message end to end:
// tenant lookup, ticket resolution, message logging, the follow-up
// short-circuit, triage, landlord notification, and reply composition.
// It holds no state between requests; every call re-reads what it needs.
type IntakeService struct {
	tenants    repository.TenantRepository
	landlords  repository.LandlordRepository
	tickets    repository.TicketRepository
	messages   repository.TicketMessageRepository
	unknown    repository.UnknownMessageRepository
	classifier triage.Classifier
	messenger  sms.Messenger
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	TenantRepo         repository.TenantRepository
	LandlordRepo       repository.LandlordRepository
	TicketRepo         repository.TicketRepository
	MessageRepo        repository.TicketMessageRepository
	UnknownMessageRepo repository.UnknownMessageRepository
	Classifier         triage.Classifier
	Messenger          sms.Messenger
	Dispatcher         events.Dispatcher
	Logger             *zap.Logger
	Metrics            *observability.Metrics
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{
		tenants:    deps.TenantRepo,
		landlords:  deps.LandlordRepo,
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		unknown:    deps.UnknownMessageRepo,
		classifier: deps.Classifier,
		messenger:  deps.Messenger,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
	}
}

// ProcessInbound handles one webhook delivery and returns the reply
// text for the sender. A non-nil error means the flow could not reach a
// business outcome; the handler converts it to the generic error reply,
// still with HTTP 200.
func (s *IntakeService) ProcessInbound(ctx context.Context, from, body string) (string, error) {
	phone := strings.TrimSpace(from)
	text := strings.TrimSpace(body)
	if phone == "" || text == "" {
		s.metrics.RecordIntake(observability.IntakeOutcomeEmptyMessage)
		return EmptyMessageReply, nil
	}

	tenant, err := s.tenants.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.handleUnknownSender(ctx, phone, text), nil
		}
		return "", fmt.Errorf("tenant lookup: %w", err)
	}

	ticket, created, err := s.resolveTicket(ctx, tenant)
	if err != nil {
		return "", fmt.Errorf("ticket resolve: %w", err)
	}
	if created {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketCreated,
			TicketID: ticket.ID,
			TenantID: tenant.ID,
			Payload: events.TicketCreatedPayload{
				ExternalKey: ticket.ExternalKey,
				LandlordID:  ticket.LandlordID,
				UnitID:      ticket.UnitID,
			},
		})
	}

	s.logMessage(ctx, ticket, domain.SenderTypeTenant, domain.DirectionInbound, text)

	name := tenant.DisplayLabel()

	if IsFollowUpDetail(ticket, text) {
		s.metrics.RecordIntake(observability.IntakeOutcomeFollowUp)
		reply := ComposeFollowUpReply(name, ticket.IssueType)
		s.logMessage(ctx, ticket, domain.SenderTypeSystem, domain.DirectionOutbound, reply)
		return reply, nil
	}

	result, triageErr := s.classifier.Classify(ctx, text)
	if triageErr != nil {
		// Safe default already substituted by the classifier.
		s.logger.Warn("triage degraded to safe default", zap.Error(triageErr), zap.String("ticket_id", ticket.ID))
		s.metrics.RecordIntake(observability.IntakeOutcomeTriageFallback)
	} else {
		s.metrics.RecordIntake(observability.IntakeOutcomeTriaged)
	}

	s.applyTriage(ticket, result)
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return "", fmt.Errorf("ticket update: %w", err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketTriaged,
		TicketID: ticket.ID,
		TenantID: tenant.ID,
		Payload: events.TicketTriagedPayload{
			IssueType:          result.IssueType,
			Emergency:          result.Emergency,
			RiskLevel:          result.RiskLevel,
			NeedsClarification: result.NeedsClarification,
			Fallback:           triageErr != nil,
		},
	})

	s.notifyLandlord(ctx, tenant, ticket, result, text)

	reply := ComposeReply(name, ticket.IssueType, result)
	s.logMessage(ctx, ticket, domain.SenderTypeSystem, domain.DirectionOutbound, reply)
	return reply, nil
}

// handleUnknownSender logs the message for later matching and returns
// the onboarding prompt. This path never touches ticket or triage logic.
func (s *IntakeService) handleUnknownSender(ctx context.Context, phone, text string) string {
	record := &domain.UnknownMessage{Phone: phone, Body: text}
	if err := s.unknown.Create(ctx, record); err != nil {
		s.logger.Error("failed to log unknown sender message", zap.Error(err), zap.String("phone", phone))
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventUnknownSender,
		Payload: events.UnknownSenderPayload{Phone: phone},
	})
	s.metrics.RecordIntake(observability.IntakeOutcomeUnknownSender)
	return OnboardingReply
}

// resolveTicket returns the tenant's latest non-terminal ticket, or
// creates a fresh open one. Reuse-or-create is a read-then-write
// convention, not an atomic guarantee: two near-simultaneous messages
// from the same tenant can each create a ticket.
func (s *IntakeService) resolveTicket(ctx context.Context, tenant *domain.Tenant) (*domain.Ticket, bool, error) {
	latest, err := s.tickets.GetLatestByTenant(ctx, tenant.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}
	if latest != nil && !latest.Status.IsTerminal() {
		return latest, false, nil
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		TenantID:    tenant.ID,
		LandlordID:  tenant.LandlordID,
		UnitID:      tenant.UnitID,
		Status:      domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, false, err
	}
	return ticket, true, nil
}

// logMessage appends one message row and stamps ticket freshness.
// Best-effort: failures are logged and never block the rest of the flow.
func (s *IntakeService) logMessage(ctx context.Context, ticket *domain.Ticket, sender domain.MessageSenderType, direction domain.MessageDirection, body string) {
	msg := &domain.TicketMessage{
		TicketID:   ticket.ID,
		SenderType: sender,
		Direction:  direction,
		Body:       body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.logger.Error("failed to log ticket message",
			zap.Error(err),
			zap.String("ticket_id", ticket.ID),
			zap.String("direction", string(direction)),
		)
		return
	}
	if err := s.tickets.TouchLastMessage(ctx, ticket.ID, body); err != nil {
		s.logger.Error("failed to stamp ticket freshness", zap.Error(err), zap.String("ticket_id", ticket.ID))
	}
	ticket.LastMessage = &msg.Body

	s.publishEvent(ctx, events.Event{
		Type:     events.EventMessageLogged,
		TicketID: ticket.ID,
		Payload: events.MessageLoggedPayload{
			MessageID:   msg.ID,
			SenderType:  sender,
			Direction:   direction,
			BodyPreview: truncateBody(body, 120),
		},
	})
}

// applyTriage copies classifier output onto the mutable ticket state.
func (s *IntakeService) applyTriage(ticket *domain.Ticket, result domain.TriageResult) {
	issueType := result.IssueType
	riskLevel := result.RiskLevel
	ticket.IssueType = &issueType
	ticket.RiskLevel = &riskLevel
	ticket.EmergencyFlag = result.Emergency
	ticket.PendingClarification = result.NeedsClarification
	ticket.PendingClarificationField = nil
	if result.NeedsClarification && result.MissingFields.Location {
		field := domain.ClarificationFieldLocation
		ticket.PendingClarificationField = &field
	}
}

// notifyLandlord sends the SMS summary when every precondition holds:
// a landlord reference, a phone on file, and a configured transport.
// Anything missing skips the notification silently; delivery failures
// are logged and never fail the tenant-facing response.
func (s *IntakeService) notifyLandlord(ctx context.Context, tenant *domain.Tenant, ticket *domain.Ticket, result domain.TriageResult, inbound string) {
	if tenant.LandlordID == nil || s.messenger == nil || !s.messenger.Delivers() {
		s.metrics.RecordIntake(observability.IntakeOutcomeNotifySkipped)
		return
	}

	landlord, err := s.landlords.GetByID(ctx, *tenant.LandlordID)
	if err != nil {
		s.logger.Warn("landlord lookup failed; skipping notification",
			zap.Error(err), zap.String("landlord_id", *tenant.LandlordID))
		s.metrics.RecordIntake(observability.IntakeOutcomeNotifySkipped)
		return
	}
	if !landlord.HasPhone() {
		s.metrics.RecordIntake(observability.IntakeOutcomeNotifySkipped)
		return
	}

	body := composeLandlordNotification(tenant, ticket, result, inbound)
	if err := s.messenger.Send(ctx, sms.Message{To: *landlord.Phone, Body: body}); err != nil {
		s.logger.Error("landlord notification failed",
			zap.Error(err), zap.String("ticket_id", ticket.ID))
		return
	}

	s.metrics.RecordIntake(observability.IntakeOutcomeNotified)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventLandlordNotified,
		TicketID: ticket.ID,
		TenantID: tenant.ID,
		Payload: events.LandlordNotifiedPayload{
			LandlordID: landlord.ID,
			Emergency:  result.Emergency,
		},
	})
}

func composeLandlordNotification(tenant *domain.Tenant, ticket *domain.Ticket, result domain.TriageResult, inbound string) string {
	var b strings.Builder
	if result.Emergency {
		b.WriteString("[EMERGENCY] ")
	}
	fmt.Fprintf(&b, "New maintenance request from %s", tenant.DisplayLabel())
	if tenant.UnitID != nil {
		fmt.Fprintf(&b, " (unit %s)", *tenant.UnitID)
	}
	fmt.Fprintf(&b, ". Ticket %s. Issue: %s. Emergency: %s. Message: %s",
		ticket.ExternalKey,
		result.IssueType,
		yesNo(result.Emergency),
		truncateBody(inbound, notifyBodyMaxLen),
	)
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func truncateBody(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func generateTicketKey() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *IntakeService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
