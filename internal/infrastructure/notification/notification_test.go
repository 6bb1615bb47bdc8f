package notification

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/config"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/messaging"
)

type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

func (m *MockRedisClient) Subscribe(ctx context.Context, channel string) (<-chan messaging.Message, error) {
	args := m.Called(ctx, channel)
	return nil, args.Error(1)
}

func (m *MockRedisClient) Close() error {
	return m.Called().Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n entity.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func confirmedNotification() entity.Notification {
	return entity.Notification{
		Event:         entity.EventBookingConfirmed,
		BookingID:     "b-1",
		UserID:        "u-1",
		CustomerEmail: "guest@example.com",
		Attachments: []entity.Attachment{
			{Name: "booking-b-1.png", ContentType: "image/png", Data: []byte(strings.Repeat("x", 120))},
		},
		OccurredAt: time.Now(),
	}
}

func TestRedisPublisher_Notify(t *testing.T) {
	ctx := context.Background()
	n := confirmedNotification()

	t.Run("publishes on user and shared channel", func(t *testing.T) {
		client := new(MockRedisClient)
		client.On("Publish", ctx, "booking-events:u-1", n).Return(nil).Once()
		client.On("Publish", ctx, "booking-events", n).Return(nil).Once()

		require.NoError(t, NewRedisPublisher(client, "booking-events").Notify(ctx, n))
		client.AssertExpectations(t)
	})

	t.Run("skips user channel without user", func(t *testing.T) {
		anon := n
		anon.UserID = ""
		client := new(MockRedisClient)
		client.On("Publish", ctx, "booking-events", anon).Return(nil).Once()

		require.NoError(t, NewRedisPublisher(client, "booking-events").Notify(ctx, anon))
		client.AssertExpectations(t)
	})

	t.Run("returns publish error", func(t *testing.T) {
		client := new(MockRedisClient)
		client.On("Publish", ctx, "booking-events:u-1", n).Return(errors.New("redis down")).Once()

		err := NewRedisPublisher(client, "booking-events").Notify(ctx, n)
		assert.ErrorContains(t, err, "redis down")
		client.AssertNotCalled(t, "Publish", ctx, "booking-events", n)
	})
}

func TestSMTPMailer_Notify(t *testing.T) {
	cfg := config.EmailConfig{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
		Username:    "mailer",
		Password:    "secret",
		FromAddress: "no-reply@example.com",
		FromName:    "Bookings",
	}

	var sent struct {
		addr string
		to   []string
		msg  string
	}
	mailer := NewSMTPMailer(cfg, zap.NewNop())
	mailer.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent.addr, sent.to, sent.msg = addr, to, string(msg)
		return nil
	}

	require.NoError(t, mailer.Notify(context.Background(), confirmedNotification()))
	assert.Equal(t, "smtp.example.com:587", sent.addr)
	assert.Equal(t, []string{"guest@example.com"}, sent.to)
	assert.Contains(t, sent.msg, "multipart/mixed")
	assert.Contains(t, sent.msg, "filename=\"booking-b-1.png\"")
	for _, line := range strings.Split(sent.msg, "\r\n") {
		assert.LessOrEqual(t, len(line), 998)
	}

	t.Run("skips events customers do not receive", func(t *testing.T) {
		sent.to = nil
		n := confirmedNotification()
		n.Event = entity.EventBookingCreated
		require.NoError(t, mailer.Notify(context.Background(), n))
		assert.Nil(t, sent.to)
	})

	t.Run("skips without customer email", func(t *testing.T) {
		sent.to = nil
		n := confirmedNotification()
		n.CustomerEmail = ""
		require.NoError(t, mailer.Notify(context.Background(), n))
		assert.Nil(t, sent.to)
	})

	t.Run("returns send failure", func(t *testing.T) {
		mailer.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay denied") }
		assert.ErrorContains(t, mailer.Notify(context.Background(), confirmedNotification()), "relay denied")
	})
}

func TestMultiNotifier(t *testing.T) {
	ctx := context.Background()
	n := confirmedNotification()

	ok := new(MockNotifier)
	ok.On("Notify", ctx, n).Return(nil)
	failing := new(MockNotifier)
	failing.On("Notify", ctx, n).Return(errors.New("boom"))
	after := new(MockNotifier)
	after.On("Notify", ctx, n).Return(nil)

	err := NewMultiNotifier(ok, failing, after).Notify(ctx, n)
	assert.ErrorContains(t, err, "boom")
	after.AssertCalled(t, "Notify", ctx, n)
}

type recordingNotifier struct {
	mu       sync.Mutex
	received []entity.Notification
	block    chan struct{}
}

func (r *recordingNotifier) Notify(ctx context.Context, n entity.Notification) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, n)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received)
}

func TestAsyncDispatcher(t *testing.T) {
	t.Run("delivers and drains on close", func(t *testing.T) {
		rec := &recordingNotifier{}
		d := NewAsyncDispatcher(rec, 16, 2, time.Second, zap.NewNop())
		for i := 0; i < 10; i++ {
			assert.True(t, d.Dispatch(confirmedNotification()))
		}
		require.NoError(t, d.Close(context.Background()))
		assert.Equal(t, 10, rec.count())
		assert.False(t, d.Dispatch(confirmedNotification()))
	})

	t.Run("drops when queue is full", func(t *testing.T) {
		rec := &recordingNotifier{block: make(chan struct{})}
		d := NewAsyncDispatcher(rec, 1, 1, time.Second, zap.NewNop())

		accepted := 0
		for i := 0; i < 5; i++ {
			if d.Dispatch(confirmedNotification()) {
				accepted++
			}
		}
		assert.Less(t, accepted, 5)

		close(rec.block)
		require.NoError(t, d.Close(context.Background()))
		assert.Equal(t, accepted, rec.count())
	})

	t.Run("notifier failure is swallowed", func(t *testing.T) {
		failing := new(MockNotifier)
		failing.On("Notify", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
		d := NewAsyncDispatcher(failing, 4, 1, time.Second, zap.NewNop())

		require.NoError(t, d.Notify(context.Background(), confirmedNotification()))
		require.NoError(t, d.Close(context.Background()))
		failing.AssertNumberOfCalls(t, "Notify", 1)
	})
}
