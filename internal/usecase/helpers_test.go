package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/adapter/registry"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/adapter/repository"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/service"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type MockBankOracle struct {
	mock.Mock
}

func (m *MockBankOracle) Lookup(ctx context.Context, txnID string) (*entity.BankLookup, error) {
	args := m.Called(ctx, txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BankLookup), args.Error(1)
}

func (m *MockBankOracle) settles(txnID, amount string) {
	m.On("Lookup", mock.Anything, txnID).Return(&entity.BankLookup{
		Found:  true,
		Amount: decimal.RequireFromString(amount),
		Status: entity.BankStatusSuccess,
	}, nil)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n entity.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotifier) events() []entity.EventType {
	var out []entity.EventType
	for _, call := range m.Calls {
		out = append(out, call.Arguments.Get(1).(entity.Notification).Event)
	}
	return out
}

type MockQRRenderer struct {
	mock.Mock
}

func (m *MockQRRenderer) RenderPNG(token string) ([]byte, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	clock    *fakeClock
	oracle   *MockBankOracle
	notifier *MockNotifier
	renderer *MockQRRenderer
	pending  domainRepo.PendingPaymentRegistry
	verified domainRepo.VerifiedPaymentRegistry
	bookings domainRepo.BookingRepository
	verifier *PaymentVerifier
	usecase  *BookingUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock:    &fakeClock{now: time.Date(2026, 10, 18, 10, 0, 0, 0, ist)},
		oracle:   new(MockBankOracle),
		notifier: new(MockNotifier),
		renderer: new(MockQRRenderer),
		pending:  registry.NewMemoryPendingRegistry(),
		verified: registry.NewMemoryVerifiedRegistry(),
		bookings: repository.NewMemoryBookingRepository(),
	}
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.renderer.On("RenderPNG", mock.Anything).Return([]byte("png"), nil).Maybe()

	logger := zap.NewNop()
	qr := service.NewQRCodec("test-secret")
	f.verifier = NewPaymentVerifier(f.pending, f.verified, f.oracle, f.notifier, f.clock, logger)
	f.usecase = NewBookingUsecase(
		f.verifier,
		f.verified,
		f.bookings,
		service.NewBookingStateMachine(f.clock, qr),
		qr,
		f.renderer,
		f.notifier,
		ist,
		logger,
	)
	return f
}

var guest = entity.Payer{UserID: "user-1", Email: "guest@example.com"}

func (f *fixture) request(t *testing.T, amount string) *entity.PaymentRequest {
	t.Helper()
	req, err := f.verifier.GeneratePaymentRequest(context.Background(), guest, "venue@upi", decimal.RequireFromString(amount), "")
	if err != nil {
		t.Fatalf("generate payment request: %v", err)
	}
	return req
}

func details(total string) entity.BookingDetails {
	return entity.BookingDetails{
		UserID:          "user-1",
		EstablishmentID: "est-1",
		VisitingDate:    "2026-10-18",
		VisitingTime:    "18:00",
		SelectedItems:   []byte(`[{"item":"table","qty":1}]`),
		Amount:          decimal.RequireFromString(total),
	}
}
