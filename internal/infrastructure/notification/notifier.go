package notification

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
)

// MultiNotifier fans a notification out to every notifier and joins failures.
type MultiNotifier struct {
	notifiers []domainRepo.Notifier
}

func NewMultiNotifier(notifiers ...domainRepo.Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (m *MultiNotifier) Notify(ctx context.Context, n entity.Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes notifications to the log. Used when nothing else is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n entity.Notification) error {
	l.logger.Info("Notification",
		zap.String("event", string(n.Event)),
		zap.String("booking_id", n.BookingID),
		zap.String("user_id", n.UserID),
		zap.String("establishment_id", n.EstablishmentID),
		zap.Int("attachments", len(n.Attachments)),
		zap.Any("payload", n.Payload))
	return nil
}
