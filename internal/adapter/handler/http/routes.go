package http

import (
	"github.com/labstack/echo/v4"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/middleware/auth"
)

// RegisterRoutes mounts the booking API on v1. protected must already carry
// the JWT middleware; ledger may be nil.
func RegisterRoutes(v1 *echo.Group, protected *echo.Group, payments *PaymentHandler, bookings *BookingHandler, ledger *LedgerHandler) {
	customer := auth.RequireRole(auth.RoleCustomer, auth.RoleAdmin)
	owner := auth.RequireRole(auth.RoleOwner)
	admin := auth.RequireRole(auth.RoleAdmin)

	p := protected.Group("/payments")
	p.POST("/requests", payments.CreatePaymentRequest, customer)
	p.POST("/quote", payments.QuotePayment, customer)
	p.POST("/verify", payments.VerifyPayment, customer)
	p.GET("/requests/:ref", payments.GetPaymentStatus)
	p.POST("/:ref/manual-verification", payments.AnnotateManualVerification, admin)

	b := protected.Group("/bookings")
	b.POST("", bookings.CreateBooking, auth.RequireRole(auth.RoleCustomer))
	b.GET("", bookings.ListBookings)
	b.POST("/complete", bookings.CompleteBooking, owner)
	b.GET("/:id", bookings.GetBooking)
	b.GET("/:id/qr", bookings.GetBookingQRCode)
	b.POST("/:id/confirm", bookings.ConfirmBooking, owner)
	b.POST("/:id/reject", bookings.RejectBooking, owner)
	b.POST("/:id/cancel", bookings.CancelBooking, auth.RequireRole(auth.RoleCustomer, auth.RoleOwner))
	b.DELETE("/:id", bookings.DeleteBooking, admin)

	if ledger != nil {
		internal := v1.Group("/internal")
		internal.POST("/bank-ledger", ledger.RecordTransaction)
	}
}
