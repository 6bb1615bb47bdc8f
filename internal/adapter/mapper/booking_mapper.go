// Package mapper converts between domain entities and gorm models.
package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/model"
)

func BookingToModel(b *entity.Booking) *model.Booking {
	return &model.Booking{
		ID:                 b.ID,
		UserID:             b.UserID,
		EstablishmentID:    b.EstablishmentID,
		CustomerEmail:      b.CustomerEmail,
		VisitingDate:       b.VisitingDate,
		VisitingTime:       b.VisitingTime,
		VisitAt:            b.VisitAt,
		SelectedItems:      datatypes.JSON(b.SelectedItems),
		Amount:             b.Amount,
		PaymentAmount:      b.PaymentAmount,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		RefundStatus:       string(b.RefundStatus),
		TransactionID:      b.TransactionID,
		TransactionRef:     b.TransactionRef,
		QRCode:             b.QRCode,
		CancellationReason: b.CancellationReason,
		CancelledBy:        string(b.CancelledBy),
		CreatedAt:          b.CreatedAt,
		ConfirmedAt:        b.ConfirmedAt,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
		UpdatedAt:          b.UpdatedAt,
		Version:            b.Version,
	}
}

func BookingToEntity(m *model.Booking) *entity.Booking {
	return &entity.Booking{
		ID:                 m.ID,
		UserID:             m.UserID,
		EstablishmentID:    m.EstablishmentID,
		CustomerEmail:      m.CustomerEmail,
		VisitingDate:       m.VisitingDate,
		VisitingTime:       m.VisitingTime,
		VisitAt:            m.VisitAt,
		SelectedItems:      json.RawMessage(m.SelectedItems),
		Amount:             m.Amount,
		PaymentAmount:      m.PaymentAmount,
		Status:             entity.BookingStatus(m.Status),
		PaymentStatus:      entity.BookingPaymentStatus(m.PaymentStatus),
		RefundStatus:       entity.RefundStatus(m.RefundStatus),
		TransactionID:      m.TransactionID,
		TransactionRef:     m.TransactionRef,
		QRCode:             m.QRCode,
		CancellationReason: m.CancellationReason,
		CancelledBy:        entity.ActorRole(m.CancelledBy),
		CreatedAt:          m.CreatedAt,
		ConfirmedAt:        m.ConfirmedAt,
		CancelledAt:        m.CancelledAt,
		CompletedAt:        m.CompletedAt,
		UpdatedAt:          m.UpdatedAt,
		Version:            m.Version,
	}
}

func BookingsToEntities(models []model.Booking) []*entity.Booking {
	out := make([]*entity.Booking, 0, len(models))
	for i := range models {
		out = append(out, BookingToEntity(&models[i]))
	}
	return out
}
