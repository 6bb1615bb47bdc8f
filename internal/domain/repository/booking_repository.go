package repository

import (
	"context"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
)

// BookingRepository persists bookings. Update serializes writers per booking:
// mutate sees the latest committed state and its changes are committed only
// when it returns nil.
type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	Update(ctx context.Context, id string, mutate func(b *entity.Booking) error) (*entity.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error)
	ListByEstablishment(ctx context.Context, establishmentID string) ([]*entity.Booking, error)
	Delete(ctx context.Context, id string) error
}
