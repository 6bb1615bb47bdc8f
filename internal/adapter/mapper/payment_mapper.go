package mapper

import (
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/model"
)

func VerifiedPaymentToModel(p *entity.VerifiedPayment) *model.VerifiedPayment {
	m := &model.VerifiedPayment{
		TransactionRef:   p.TransactionRef,
		UpiTransactionID: p.UpiTransactionID,
		Amount:           p.Amount,
		VerifiedAt:       p.VerifiedAt,
		BookingID:        p.BookingID,
		PayerUserID:      p.PayerUserID,
		CustomerEmail:    p.CustomerEmail,
		Method:           p.VerificationInfo.Method,
		BankStatus:       string(p.VerificationInfo.BankStatus),
		BankAmount:       p.VerificationInfo.BankAmount,
		CheckedAt:        p.VerificationInfo.CheckedAt,
	}
	if mv := p.VerificationInfo.ManualVerification; mv != nil {
		by, note, at := mv.VerifiedBy, mv.Note, mv.At
		m.ManualVerifiedBy = &by
		m.ManualVerifiedNote = &note
		m.ManualVerifiedAt = &at
	}
	return m
}

func VerifiedPaymentToEntity(m *model.VerifiedPayment) *entity.VerifiedPayment {
	p := &entity.VerifiedPayment{
		TransactionRef:   m.TransactionRef,
		UpiTransactionID: m.UpiTransactionID,
		Amount:           m.Amount,
		VerifiedAt:       m.VerifiedAt,
		BookingID:        m.BookingID,
		PayerUserID:      m.PayerUserID,
		CustomerEmail:    m.CustomerEmail,
		VerificationInfo: entity.VerificationInfo{
			Method:     m.Method,
			BankStatus: entity.BankStatus(m.BankStatus),
			BankAmount: m.BankAmount,
			CheckedAt:  m.CheckedAt,
		},
	}
	if m.ManualVerifiedBy != nil {
		mv := &entity.ManualVerification{VerifiedBy: *m.ManualVerifiedBy}
		if m.ManualVerifiedNote != nil {
			mv.Note = *m.ManualVerifiedNote
		}
		if m.ManualVerifiedAt != nil {
			mv.At = *m.ManualVerifiedAt
		}
		p.VerificationInfo.ManualVerification = mv
	}
	return p
}
