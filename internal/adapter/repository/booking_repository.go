package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/adapter/mapper"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/model"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
	apperrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/errors"
)

// errStaleBooking is returned when the version check fails after the row
// lock, which only happens if something bypassed Update.
var errStaleBooking = apperrors.NewAppError(apperrors.ErrConflict, "booking was modified concurrently", nil)

// bookingRepository implements the BookingRepository interface on postgres
type bookingRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewBookingRepository creates a new booking repository instance
func NewBookingRepository(db *gorm.DB, logger *zap.Logger) domainRepo.BookingRepository {
	return &bookingRepository{db: db, logger: logger}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	err := r.db.WithContext(ctx).Create(mapper.BookingToModel(booking)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainErrors.ErrBookingExists
	}
	if err != nil {
		r.logger.Error("Failed to create booking", zap.String("booking_id", booking.ID), zap.Error(err))
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	var row model.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return mapper.BookingToEntity(&row), nil
}

// Update locks the row with SELECT ... FOR UPDATE for the duration of mutate
// and writes back with a version check.
func (r *bookingRepository) Update(ctx context.Context, id string, mutate func(b *entity.Booking) error) (*entity.Booking, error) {
	var result *entity.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.ErrBookingNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		b := mapper.BookingToEntity(&row)
		if err := mutate(b); err != nil {
			return err
		}
		b.Version = row.Version + 1

		res := tx.Model(&model.Booking{}).
			Where("id = ? AND version = ?", id, row.Version).
			Select("*").
			Omit("id", "created_at").
			Updates(mapper.BookingToModel(b))
		if res.Error != nil {
			return fmt.Errorf("failed to update booking: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errStaleBooking
		}

		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Booking updated",
		zap.String("booking_id", id),
		zap.String("status", string(result.Status)),
		zap.Int64("version", result.Version))
	return result, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *bookingRepository) ListByEstablishment(ctx context.Context, establishmentID string) ([]*entity.Booking, error) {
	return r.list(ctx, "establishment_id = ?", establishmentID)
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Booking{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domainErrors.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) list(ctx context.Context, query string, arg string) ([]*entity.Booking, error) {
	var rows []model.Booking
	if err := r.db.WithContext(ctx).Where(query, arg).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return mapper.BookingsToEntities(rows), nil
}
