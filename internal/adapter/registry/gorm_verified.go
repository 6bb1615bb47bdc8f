package registry

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
)

type gormVerifiedRegistry struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormVerifiedRegistry persists verified payments in postgres. Uniqueness
// of the UPI transaction id is enforced by a unique index, so it holds across
// service instances.
func NewGormVerifiedRegistry(db *gorm.DB, logger *zap.Logger) domainRepo.VerifiedPaymentRegistry {
	return &gormVerifiedRegistry{db: db, logger: logger}
}

func (r *gormVerifiedRegistry) Save(ctx context.Context, payment *entity.VerifiedPayment) error {
	err := r.db.WithContext(ctx).Create(mapper.VerifiedPaymentToModel(payment)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainErrors.ErrVerifiedPaymentExists
	}
	if err != nil {
		r.logger.Error("Failed to save verified payment",
			zap.String("transaction_ref", payment.TransactionRef),
			zap.Error(err))
		return fmt.Errorf("failed to save verified payment: %w", err)
	}
	return nil
}

func (r *gormVerifiedRegistry) GetByRef(ctx context.Context, ref string) (*entity.VerifiedPayment, error) {
	return r.first(ctx, "transaction_ref = ?", ref)
}

func (r *gormVerifiedRegistry) GetByTxnID(ctx context.Context, upiTxnID string) (*entity.VerifiedPayment, error) {
	return r.first(ctx, "upi_transaction_id = ?", upiTxnID)
}

func (r *gormVerifiedRegistry) ExistsByTxnID(ctx context.Context, upiTxnID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.VerifiedPayment{}).
		Where("upi_transaction_id = ?", upiTxnID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check transaction id: %w", err)
	}
	return count > 0, nil
}

func (r *gormVerifiedRegistry) Annotate(ctx context.Context, ref string, manual entity.ManualVerification) (*entity.VerifiedPayment, error) {
	var updated model.VerifiedPayment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("transaction_ref = ?", ref).
			First(&updated).Error; err != nil {
			return err
		}
		updated.ManualVerifiedBy = &manual.VerifiedBy
		updated.ManualVerifiedNote = &manual.Note
		updated.ManualVerifiedAt = &manual.At
		return tx.Model(&updated).Updates(map[string]interface{}{
			"manual_verified_by":   manual.VerifiedBy,
			"manual_verified_note": manual.Note,
			"manual_verified_at":   manual.At,
		}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.ErrVerifiedPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to annotate verified payment: %w", err)
	}
	return mapper.VerifiedPaymentToEntity(&updated), nil
}

func (r *gormVerifiedRegistry) List(ctx context.Context, match func(*entity.VerifiedPayment) bool) ([]*entity.VerifiedPayment, error) {
	var rows []model.VerifiedPayment
	if err := r.db.WithContext(ctx).Order("verified_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list verified payments: %w", err)
	}
	out := make([]*entity.VerifiedPayment, 0, len(rows))
	for i := range rows {
		p := mapper.VerifiedPaymentToEntity(&rows[i])
		if match == nil || match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *gormVerifiedRegistry) first(ctx context.Context, query string, arg string) (*entity.VerifiedPayment, error) {
	var row model.VerifiedPayment
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainErrors.ErrVerifiedPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load verified payment: %w", err)
	}
	return mapper.VerifiedPaymentToEntity(&row), nil
}
