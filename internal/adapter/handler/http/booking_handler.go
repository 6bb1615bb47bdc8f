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

type BookingHandler struct {
	usecase *usecase.BookingUsecase
	logger  *zap.Logger
}

func NewBookingHandler(usecase *usecase.BookingUsecase, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// currentActor returns the authenticated user and the actor they act as.
// The actor is nil for administrators.
func currentActor(c echo.Context) (*auth.AuthUser, *entity.Actor, error) {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrUnauthenticated, "authentication required", err)
	}
	actor, err := user.Actor()
	if err != nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrUnauthorized, err.Error(), err)
	}
	return user, actor, nil
}

func requireActor(c echo.Context, role entity.ActorRole) (*entity.Actor, error) {
	_, actor, err := currentActor(c)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.Role != role {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "operation not allowed for this role", nil)
	}
	return actor, nil
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	actor, err := requireActor(c, entity.ActorCustomer)
	if err != nil {
		return err
	}

	var body CreateBookingBody
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return err
	}

	booking, err := h.usecase.CreateBooking(c.Request().Context(), body.TransactionRef, entity.BookingDetails{
		UserID:          actor.ID,
		EstablishmentID: body.EstablishmentID,
		VisitingDate:    body.VisitingDate,
		VisitingTime:    body.VisitingTime,
		SelectedItems:   body.SelectedItems,
		Amount:          amount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, booking)
}

// GetBooking handles GET /bookings/:id
func (h *BookingHandler) GetBooking(c echo.Context) error {
	_, actor, err := currentActor(c)
	if err != nil {
		return err
	}
	booking, err := h.usecase.GetBooking(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// ListBookings handles GET /bookings. Customers see their own bookings,
// owners their establishment's; admins pick with user_id or establishment_id.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	_, actor, err := currentActor(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var bookings []*entity.Booking
	switch {
	case actor != nil && actor.Role == entity.ActorCustomer:
		bookings, err = h.usecase.ListUserBookings(ctx, actor.ID)
	case actor != nil && actor.Role == entity.ActorOwner:
		bookings, err = h.usecase.ListEstablishmentBookings(ctx, actor.ID)
	case c.QueryParam("user_id") != "":
		bookings, err = h.usecase.ListUserBookings(ctx, c.QueryParam("user_id"))
	case c.QueryParam("establishment_id") != "":
		bookings, err = h.usecase.ListEstablishmentBookings(ctx, c.QueryParam("establishment_id"))
	default:
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "user_id or establishment_id is required", nil)
	}
	if err != nil {
		return err
	}

	h.logger.Debug("Listed bookings", zap.Int("count", len(bookings)))
	return c.JSON(http.StatusOK, bookings)
}

// ConfirmBooking handles POST /bookings/:id/confirm
func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	actor, err := requireActor(c, entity.ActorOwner)
	if err != nil {
		return err
	}
	booking, err := h.usecase.ConfirmBooking(c.Request().Context(), c.Param("id"), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// RejectBooking handles POST /bookings/:id/reject
func (h *BookingHandler) RejectBooking(c echo.Context) error {
	actor, err := requireActor(c, entity.ActorOwner)
	if err != nil {
		return err
	}
	var body ReasonBody
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	booking, err := h.usecase.RejectBooking(c.Request().Context(), c.Param("id"), actor.ID, body.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// CancelBooking handles POST /bookings/:id/cancel for customers and owners
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	_, actor, err := currentActor(c)
	if err != nil {
		return err
	}
	if actor == nil {
		return apperrors.NewAppError(apperrors.ErrUnauthorized, "only customers and owners cancel bookings", nil)
	}
	var body ReasonBody
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	booking, err := h.usecase.CancelBooking(c.Request().Context(), c.Param("id"), *actor, body.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// CompleteBooking handles POST /bookings/complete, the QR scan at the venue
func (h *BookingHandler) CompleteBooking(c echo.Context) error {
	actor, err := requireActor(c, entity.ActorOwner)
	if err != nil {
		return err
	}
	var body CompleteBookingBody
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	booking, err := h.usecase.CompleteBooking(c.Request().Context(), body.QRCode, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// GetBookingQRCode handles GET /bookings/:id/qr
func (h *BookingHandler) GetBookingQRCode(c echo.Context) error {
	_, actor, err := currentActor(c)
	if err != nil {
		return err
	}
	png, err := h.usecase.BookingQRCode(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// DeleteBooking handles DELETE /bookings/:id (admin)
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	if err := h.usecase.DeleteBooking(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
