package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/middleware/auth"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/usecase"
	apperrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/errors"
)

type PaymentHandler struct {
	bookings *usecase.BookingUsecase
	payments *usecase.PaymentVerifier
	logger   *zap.Logger
}

func NewPaymentHandler(bookings *usecase.BookingUsecase, payments *usecase.PaymentVerifier, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		bookings: bookings,
		payments: payments,
		logger:   logger,
	}
}

func payerOf(user *auth.AuthUser, email string) entity.Payer {
	if email == "" {
		email = user.Email
	}
	return entity.Payer{UserID: user.UserID, Email: email}
}

// CreatePaymentRequest handles POST /payments/requests
func (h *PaymentHandler) CreatePaymentRequest(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrUnauthenticated, "authentication required", err)
	}

	var body CreatePaymentRequestBody
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return err
	}
	req, err := h.bookings.GeneratePaymentRequest(c.Request().Context(), payerOf(user, body.CustomerEmail), body.UpiID, amount, body.BookingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, req)
}

// QuotePayment handles POST /payments/quote: requests the advance owed on a booking total.
func (h *PaymentHandler) QuotePayment(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrUnauthenticated, "authentication required", err)
	}

	var body QuotePaymentBody
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	total, err := parseAmount("total", body.Total)
	if err != nil {
		return err
	}
	req, err := h.bookings.StartBookingPayment(c.Request().Context(), payerOf(user, body.CustomerEmail), total, body.UpiID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, req)
}

// VerifyPayment handles POST /payments/verify. Rejected claims are answered
// with the verification result and the status of the failed gate.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var body VerifyPaymentBody
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return err
	}

	result, err := h.bookings.VerifyPayment(c.Request().Context(), body.TransactionRef, body.TransactionID, amount)
	if err == nil {
		return c.JSON(http.StatusOK, result)
	}
	if result.Reason == "" {
		return err
	}

	h.logger.Debug("Verification rejected",
		zap.String("transaction_ref", body.TransactionRef),
		zap.String("reason", string(result.Reason)))
	return c.JSON(apperrors.ToHTTPStatus(apperrors.CodeOf(err)), echo.Map{
		"ok":      result.OK,
		"reason":  result.Reason,
		"message": result.Message,
		"code":    apperrors.CodeOf(err),
	})
}

// GetPaymentStatus handles GET /payments/requests/:ref
func (h *PaymentHandler) GetPaymentStatus(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrUnauthenticated, "authentication required", err)
	}

	var req *entity.PaymentRequest
	if user.Role == auth.RoleAdmin {
		req, err = h.payments.PaymentStatus(c.Request().Context(), c.Param("ref"))
	} else {
		req, err = h.payments.PaymentStatusForPayer(c.Request().Context(), c.Param("ref"), user.UserID)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

// AnnotateManualVerification handles POST /payments/:ref/manual-verification (admin)
func (h *PaymentHandler) AnnotateManualVerification(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrUnauthenticated, "authentication required", err)
	}

	var body ManualVerificationBody
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}

	verifiedBy := user.Email
	if verifiedBy == "" {
		verifiedBy = user.UserID
	}
	payment, err := h.payments.AnnotateManualVerification(c.Request().Context(), c.Param("ref"), verifiedBy, body.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}
