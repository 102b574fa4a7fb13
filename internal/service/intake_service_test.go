package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/AaronAmha/HomeManagement/internal/domain"
	"github.com/AaronAmha/HomeManagement/internal/events"
	"github.com/AaronAmha/HomeManagement/internal/observability"
	"github.com/AaronAmha/HomeManagement/internal/repository"
	"github.com/AaronAmha/HomeManagement/internal/sms"
)

type fakeTenantRepo struct {
	byPhone map[string]*domain.Tenant
	err     error
}

func (f *fakeTenantRepo) GetByPhone(ctx context.Context, phone string) (*domain.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	tenant, ok := f.byPhone[phone]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return tenant, nil
}

func (f *fakeTenantRepo) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	for _, tenant := range f.byPhone {
		if tenant.ID == id {
			return tenant, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeLandlordRepo struct {
	byID map[string]*domain.Landlord
}

func (f *fakeLandlordRepo) GetByID(ctx context.Context, id string) (*domain.Landlord, error) {
	landlord, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return landlord, nil
}

type fakeTicketRepo struct {
	tickets   []*domain.Ticket
	seq       int
	createErr error
	updateErr error
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", f.seq)
	ticket.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	ticket.UpdatedAt = ticket.CreatedAt
	f.tickets = append(f.tickets, ticket)
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, existing := range f.tickets {
		if existing.ID == ticket.ID {
			f.tickets[i] = ticket
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	for _, ticket := range f.tickets {
		if ticket.ID == id {
			return ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) GetLatestByTenant(ctx context.Context, tenantID string) (*domain.Ticket, error) {
	var latest *domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.TenantID != tenantID {
			continue
		}
		if latest == nil || ticket.CreatedAt.After(latest.CreatedAt) {
			latest = ticket
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	return latest, nil
}

func (f *fakeTicketRepo) TouchLastMessage(ctx context.Context, id, lastMessage string) error {
	for _, ticket := range f.tickets {
		if ticket.ID == id {
			ticket.LastMessage = &lastMessage
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range f.tickets {
		result = append(result, *ticket)
	}
	return result, nil
}

type fakeMessageRepo struct {
	msgs      []*domain.TicketMessage
	seq       int
	createErr error
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *domain.TicketMessage) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	msg.ID = fmt.Sprintf("msg-%d", f.seq)
	msg.CreatedAt = time.Now()
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeMessageRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	var result []domain.TicketMessage
	for _, msg := range f.msgs {
		if msg.TicketID == ticketID {
			result = append(result, *msg)
		}
	}
	return result, nil
}

type fakeUnknownRepo struct {
	msgs      []domain.UnknownMessage
	createErr error
}

func (f *fakeUnknownRepo) Create(ctx context.Context, msg *domain.UnknownMessage) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.msgs = append(f.msgs, *msg)
	return nil
}

type fakeClassifier struct {
	result domain.TriageResult
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, message string) (domain.TriageResult, error) {
	f.calls++
	if f.err != nil {
		return domain.SafeTriageDefault(), f.err
	}
	return f.result, nil
}

type fakeMessenger struct {
	sent []sms.Message
	err  error
}

func (f *fakeMessenger) Send(ctx context.Context, msg sms.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMessenger) Delivers() bool { return true }

type intakeFixture struct {
	tenants    *fakeTenantRepo
	landlords  *fakeLandlordRepo
	tickets    *fakeTicketRepo
	messages   *fakeMessageRepo
	unknown    *fakeUnknownRepo
	classifier *fakeClassifier
	messenger  *fakeMessenger
	metrics    *observability.Metrics
	service    *IntakeService
}

func newIntakeFixture() *intakeFixture {
	f := &intakeFixture{
		tenants:    &fakeTenantRepo{byPhone: map[string]*domain.Tenant{}},
		landlords:  &fakeLandlordRepo{byID: map[string]*domain.Landlord{}},
		tickets:    &fakeTicketRepo{},
		messages:   &fakeMessageRepo{},
		unknown:    &fakeUnknownRepo{},
		classifier: &fakeClassifier{result: domain.SafeTriageDefault()},
		messenger:  &fakeMessenger{},
		metrics:    observability.NewMetrics(),
	}
	f.service = NewIntakeService(IntakeDependencies{
		TenantRepo:         f.tenants,
		LandlordRepo:       f.landlords,
		TicketRepo:         f.tickets,
		MessageRepo:        f.messages,
		UnknownMessageRepo: f.unknown,
		Classifier:         f.classifier,
		Messenger:          f.messenger,
		Dispatcher:         events.NewInMemoryDispatcher(),
		Logger:             zap.NewNop(),
		Metrics:            f.metrics,
	})
	return f
}

func strPtr(s string) *string { return &s }

func (f *intakeFixture) addTenant(phone string) *domain.Tenant {
	tenant := &domain.Tenant{
		ID:         "tenant-" + phone,
		Phone:      phone,
		Name:       strPtr("Jane"),
		LandlordID: strPtr("landlord-1"),
		UnitID:     strPtr("4B"),
	}
	f.tenants.byPhone[phone] = tenant
	return tenant
}

func (f *intakeFixture) addLandlord(phone *string) {
	f.landlords.byID["landlord-1"] = &domain.Landlord{ID: "landlord-1", Name: "Mr. Roper", Phone: phone}
}

func TestProcessInboundEmptyInput(t *testing.T) {
	f := newIntakeFixture()
	reply, err := f.service.ProcessInbound(context.Background(), "  ", "leak")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != EmptyMessageReply {
		t.Fatalf("expected empty-message reply, got %q", reply)
	}
	if len(f.tickets.tickets) != 0 || len(f.unknown.msgs) != 0 {
		t.Fatal("empty input must have no persistence side effects")
	}
}

func TestProcessInboundUnknownSender(t *testing.T) {
	f := newIntakeFixture()
	reply, err := f.service.ProcessInbound(context.Background(), "+15550000000", "my sink leaks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != OnboardingReply {
		t.Fatalf("expected onboarding reply, got %q", reply)
	}
	if len(f.unknown.msgs) != 1 || f.unknown.msgs[0].Phone != "+15550000000" {
		t.Fatalf("expected one unknown-message record, got %+v", f.unknown.msgs)
	}
	if len(f.tickets.tickets) != 0 {
		t.Fatal("unknown sender must not create tickets")
	}
	if f.classifier.calls != 0 {
		t.Fatal("unknown sender must not reach triage")
	}
}

func TestProcessInboundCreatesTicketForNewTenant(t *testing.T) {
	f := newIntakeFixture()
	f.addTenant("+15551234567")
	f.addLandlord(nil)

	if _, err := f.service.ProcessInbound(context.Background(), "+15551234567", "the heater is broken"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.tickets.tickets) != 1 {
		t.Fatalf("expected one ticket, got %d", len(f.tickets.tickets))
	}
	ticket := f.tickets.tickets[0]
	if !strings.HasPrefix(ticket.ExternalKey, "TKT-") {
		t.Fatalf("unexpected external key %q", ticket.ExternalKey)
	}
	if ticket.LandlordID == nil || *ticket.LandlordID != "landlord-1" {
		t.Fatal("ticket must copy the tenant landlord reference")
	}
	if ticket.UnitID == nil || *ticket.UnitID != "4B" {
		t.Fatal("ticket must copy the tenant unit reference")
	}
}

func TestProcessInboundReusesOpenTicket(t *testing.T) {
	f := newIntakeFixture()
	tenant := f.addTenant("+15551234567")

	existing := &domain.Ticket{TenantID: tenant.ID, ExternalKey: "TKT-EXISTING", Status: domain.TicketStatusInProgress}
	if err := f.tickets.Create(context.Background(), existing); err != nil {
		t.Fatal(err)
	}

	if _, err := f.service.ProcessInbound(context.Background(), "+15551234567", "any update?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.tickets.tickets) != 1 {
		t.Fatalf("expected the open ticket to be reused, got %d tickets", len(f.tickets.tickets))
	}
	if f.messages.msgs[0].TicketID != existing.ID {
		t.Fatalf("inbound message logged against %q, want %q", f.messages.msgs[0].TicketID, existing.ID)
	}
}

func TestProcessInboundCreatesFreshTicketAfterTerminal(t *testing.T) {
	f := newIntakeFixture()
	tenant := f.addTenant("+15551234567")

	closed := &domain.Ticket{TenantID: tenant.ID, ExternalKey: "TKT-CLOSED", Status: domain.TicketStatusClosed}
	if err := f.tickets.Create(context.Background(), closed); err != nil {
		t.Fatal(err)
	}

	if _, err := f.service.ProcessInbound(context.Background(), "+15551234567", "new problem: oven died"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.tickets.tickets) != 2 {
		t.Fatalf("expected a fresh ticket, got %d tickets", len(f.tickets.tickets))
	}
	fresh := f.tickets.tickets[1]
	if fresh.Status != domain.TicketStatusOpen {
		t.Fatalf("fresh ticket status %q, want OPEN", fresh.Status)
	}
	if fresh.EmergencyFlag || fresh.PendingClarification {
		t.Fatal("fresh ticket must start with triage flags cleared")
	}
}

func TestProcessInboundFollowUpShortCircuit(t *testing.T) {
	f := newIntakeFixture()
	tenant := f.addTenant("+15551234567")
	f.addLandlord(strPtr("+15559999999"))

	issue := domain.IssueTypePlumbing
	open := &domain.Ticket{TenantID: tenant.ID, ExternalKey: "TKT-OPEN", Status: domain.TicketStatusOpen, IssueType: &issue}
	if err := f.tickets.Create(context.Background(), open); err != nil {
		t.Fatal(err)
	}

	reply, err := f.service.ProcessInbound(context.Background(), "+15551234567", "kitchen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "added that detail") || !strings.Contains(reply, "plumbing") {
		t.Fatalf("expected follow-up template, got %q", reply)
	}
	if f.classifier.calls != 0 {
		t.Fatal("follow-up short-circuit must skip classification")
	}
	if len(f.messenger.sent) != 0 {
		t.Fatal("follow-up short-circuit must skip landlord notification")
	}
	// Inbound plus the outbound acknowledgment.
	if len(f.messages.msgs) != 2 {
		t.Fatalf("expected 2 logged messages, got %d", len(f.messages.msgs))
	}
	if f.messages.msgs[1].Direction != domain.DirectionOutbound || f.messages.msgs[1].SenderType != domain.SenderTypeSystem {
		t.Fatalf("outbound ack logged as %+v", f.messages.msgs[1])
	}
}

func TestProcessInboundEmergencyNotifiesLandlord(t *testing.T) {
	f := newIntakeFixture()
	f.addTenant("+15551234567")
	f.addLandlord(strPtr("+15559999999"))

	f.classifier.result = domain.TriageResult{
		IssueType: domain.IssueTypePlumbing,
		Emergency: true,
		RiskLevel: domain.RiskLevelHigh,
	}

	longBody := "the pipe under the kitchen sink burst and water is flooding everywhere, " +
		"it is spreading into the hallway and I can't find the shutoff valve anywhere in the unit"

	reply, err := f.service.ProcessInbound(context.Background(), "+15551234567", longBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.messenger.sent) != 1 {
		t.Fatalf("expected exactly one SMS attempt, got %d", len(f.messenger.sent))
	}

	sent := f.messenger.sent[0]
	if sent.To != "+15559999999" {
		t.Fatalf("SMS sent to %q", sent.To)
	}
	if !strings.HasPrefix(sent.Body, "[EMERGENCY]") {
		t.Fatalf("expected emergency tag prefix, got %q", sent.Body)
	}
	ticket := f.tickets.tickets[0]
	if !strings.Contains(sent.Body, ticket.ExternalKey) {
		t.Fatalf("notification missing ticket key: %q", sent.Body)
	}
	if !strings.Contains(sent.Body, "plumbing") {
		t.Fatalf("notification missing issue type: %q", sent.Body)
	}
	if !strings.Contains(sent.Body, "...") {
		t.Fatalf("long inbound body should be truncated with ellipsis: %q", sent.Body)
	}
	if !strings.Contains(reply, "urgent") {
		t.Fatalf("expected urgent tenant reply, got %q", reply)
	}
	if !ticket.EmergencyFlag {
		t.Fatal("ticket emergency flag not set")
	}
}

func TestProcessInboundSkipsNotificationWithoutLandlordPhone(t *testing.T) {
	f := newIntakeFixture()
	f.addTenant("+15551234567")
	f.addLandlord(nil)

	f.classifier.result = domain.TriageResult{IssueType: domain.IssueTypeHVAC, Emergency: true, RiskLevel: domain.RiskLevelHigh}

	if _, err := f.service.ProcessInbound(context.Background(), "+15551234567", "no heat and it's freezing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.messenger.sent) != 0 {
		t.Fatal("notification must be skipped when no landlord phone is on file")
	}
	if f.metrics.IntakeCount(observability.IntakeOutcomeNotifySkipped) != 1 {
		t.Fatal("expected notify_skipped outcome recorded")
	}
}

func TestProcessInboundTriageFailureDegrades(t *testing.T) {
	f := newIntakeFixture()
	f.addTenant("+15551234567")
	f.addLandlord(strPtr("+15559999999"))

	f.classifier.err = errors.New("model unreachable")

	reply, err := f.service.ProcessInbound(context.Background(), "+15551234567", "something is wrong with the fridge")
	if err != nil {
		t.Fatalf("triage failure must not abort the flow: %v", err)
	}
	if !strings.Contains(reply, "issue request") {
		t.Fatalf("expected generic reply with default label, got %q", reply)
	}
	ticket := f.tickets.tickets[0]
	if ticket.IssueType == nil || *ticket.IssueType != domain.IssueTypeGeneral {
		t.Fatalf("ticket should carry the safe-default issue type, got %+v", ticket.IssueType)
	}
	if ticket.EmergencyFlag {
		t.Fatal("safe default must not flag an emergency")
	}
	if f.metrics.IntakeCount(observability.IntakeOutcomeTriageFallback) != 1 {
		t.Fatal("expected triage_fallback outcome recorded")
	}
}

func TestProcessInboundMessageLogFailureContinues(t *testing.T) {
	f := newIntakeFixture()
	f.addTenant("+15551234567")
	f.addLandlord(strPtr("+15559999999"))
	f.messages.createErr = errors.New("insert failed")

	f.classifier.result = domain.TriageResult{IssueType: domain.IssueTypeAppliance, RiskLevel: domain.RiskLevelLow}

	reply, err := f.service.ProcessInbound(context.Background(), "+15551234567", "dishwasher leaking a little")
	if err != nil {
		t.Fatalf("message-log failure must not abort the flow: %v", err)
	}
	if !strings.Contains(reply, "appliance") {
		t.Fatalf("expected normal reply despite log failure, got %q", reply)
	}
	if f.classifier.calls != 1 {
		t.Fatal("triage must still run when message logging fails")
	}
}

func TestProcessInboundTenantLookupFailureIsFatal(t *testing.T) {
	f := newIntakeFixture()
	f.tenants.err = errors.New("connection refused")

	if _, err := f.service.ProcessInbound(context.Background(), "+15551234567", "hello"); err == nil {
		t.Fatal("expected error when tenant lookup fails outright")
	}
}

func TestProcessInboundNoopTransportSkipsNotification(t *testing.T) {
	f := newIntakeFixture()
	f.addTenant("+15551234567")
	f.addLandlord(strPtr("+15559999999"))
	f.classifier.result = domain.TriageResult{IssueType: domain.IssueTypePlumbing, Emergency: true, RiskLevel: domain.RiskLevelHigh}

	f.service = NewIntakeService(IntakeDependencies{
		TenantRepo:         f.tenants,
		LandlordRepo:       f.landlords,
		TicketRepo:         f.tickets,
		MessageRepo:        f.messages,
		UnknownMessageRepo: f.unknown,
		Classifier:         f.classifier,
		Messenger:          &sms.NoopMessenger{},
		Dispatcher:         events.NewInMemoryDispatcher(),
		Logger:             zap.NewNop(),
		Metrics:            f.metrics,
	})

	if _, err := f.service.ProcessInbound(context.Background(), "+15551234567", "water everywhere"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.metrics.IntakeCount(observability.IntakeOutcomeNotified) != 0 {
		t.Fatal("non-delivering transport must not count as a delivery")
	}
	if f.metrics.IntakeCount(observability.IntakeOutcomeNotifySkipped) != 1 {
		t.Fatal("expected notify_skipped outcome recorded")
	}
}

func TestTruncateBodyCountsRunes(t *testing.T) {
	short := strings.Repeat("é", 100)
	if got := truncateBody(short, 140); got != short {
		t.Fatalf("100-character body must pass through untouched, got %q", got)
	}

	long := strings.Repeat("é", 150)
	got := truncateBody(long, 140)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 140 {
		t.Fatalf("truncated to %d characters, want 140", n)
	}
}

func TestProcessInboundClarificationSetsPendingField(t *testing.T) {
	f := newIntakeFixture()
	f.addTenant("+15551234567")
	f.addLandlord(strPtr("+15559999999"))

	question := "Which room is the leak in?"
	f.classifier.result = domain.TriageResult{
		IssueType:             domain.IssueTypePlumbing,
		RiskLevel:             domain.RiskLevelMedium,
		NeedsClarification:    true,
		ClarificationQuestion: &question,
		MissingFields:         domain.MissingFields{Location: true},
	}

	reply, err := f.service.ProcessInbound(context.Background(), "+15551234567", "there's a leak somewhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, question) {
		t.Fatalf("expected clarification question in reply, got %q", reply)
	}
	ticket := f.tickets.tickets[0]
	if !ticket.PendingClarification {
		t.Fatal("pending clarification not set")
	}
	if ticket.PendingClarificationField == nil || *ticket.PendingClarificationField != domain.ClarificationFieldLocation {
		t.Fatalf("pending clarification field = %v, want location", ticket.PendingClarificationField)
	}
}
