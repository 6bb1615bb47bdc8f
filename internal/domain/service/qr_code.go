package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
)

// QRPayload is the decoded content of a booking QR token.
type QRPayload struct {
	BookingID       string
	EstablishmentID string
	Nonce           string
	Signature       string
}

// QRCodec issues and checks the visit tokens printed as QR codes. A token is
// the base64url form of
//
//	booking:<id>;establishment:<id>;nonce:<uuid>;signature:<hex hmac>
//
// where the HMAC covers the booking, the confirming establishment, the bank
// transaction id and the nonce.
type QRCodec struct {
	secret []byte
}

func NewQRCodec(secret string) *QRCodec {
	return &QRCodec{secret: []byte(secret)}
}

// Issue creates a fresh token for b.
func (q *QRCodec) Issue(b *entity.Booking) string {
	nonce := uuid.NewString()
	data := fmt.Sprintf("booking:%s;establishment:%s;nonce:%s;signature:%s",
		b.ID, b.EstablishmentID, nonce, q.sign(b.ID, b.EstablishmentID, b.TransactionID, nonce))
	return base64.RawURLEncoding.EncodeToString([]byte(data))
}

// Decode parses a token without checking its signature.
func (q *QRCodec) Decode(token string) (*QRPayload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: not base64url", domainErrors.ErrInvalidQRCode)
	}

	fields := make(map[string]string, 4)
	for _, part := range strings.Split(string(raw), ";") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: malformed segment", domainErrors.ErrInvalidQRCode)
		}
		fields[key] = value
	}

	p := &QRPayload{
		BookingID:       fields["booking"],
		EstablishmentID: fields["establishment"],
		Nonce:           fields["nonce"],
		Signature:       fields["signature"],
	}
	if p.BookingID == "" || p.EstablishmentID == "" || p.Nonce == "" || p.Signature == "" {
		return nil, fmt.Errorf("%w: missing fields", domainErrors.ErrInvalidQRCode)
	}
	return p, nil
}

// Verify checks that p was issued by this codec for b.
func (q *QRCodec) Verify(p *QRPayload, b *entity.Booking) error {
	if p.BookingID != b.ID || p.EstablishmentID != b.EstablishmentID {
		return fmt.Errorf("%w: token does not belong to booking", domainErrors.ErrInvalidQRCode)
	}
	expected := q.sign(b.ID, b.EstablishmentID, b.TransactionID, p.Nonce)
	if !hmac.Equal([]byte(expected), []byte(p.Signature)) {
		return fmt.Errorf("%w: bad signature", domainErrors.ErrInvalidQRCode)
	}
	return nil
}

func (q *QRCodec) sign(bookingID, establishmentID, transactionID, nonce string) string {
	mac := hmac.New(sha256.New, q.secret)
	mac.Write([]byte(bookingID + ":" + establishmentID + ":" + transactionID + ":" + nonce))
	return hex.EncodeToString(mac.Sum(nil))
}
