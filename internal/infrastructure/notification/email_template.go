package notification

import (
	"fmt"
	"html"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
)

// renderEmail returns the subject and HTML body for a notification, or ok
// false when the event is not mailed to customers.
func renderEmail(n entity.Notification, sender string) (subject, body string, ok bool) {
	ref := html.EscapeString(n.BookingID)

	var headline, text string
	switch n.Event {
	case entity.EventPaymentVerified:
		subject = "Payment received"
		headline = "Your advance payment is verified"
		text = fmt.Sprintf("We received your payment for reference <strong>%s</strong>.", html.EscapeString(payloadString(n, "transaction_ref")))
	case entity.EventBookingConfirmed:
		subject = "Booking confirmed"
		headline = "Your booking is confirmed"
		text = fmt.Sprintf("Booking <strong>%s</strong> is confirmed. Show the attached QR code at the venue.", ref)
	case entity.EventBookingRejected:
		subject = "Booking rejected"
		headline = "Your booking was rejected"
		text = fmt.Sprintf("Booking <strong>%s</strong> was rejected by the venue. Your advance will be refunded.", ref)
	case entity.EventBookingCancelled:
		subject = "Booking cancelled"
		headline = "Your booking was cancelled"
		text = fmt.Sprintf("Booking <strong>%s</strong> was cancelled. Refund status: %s.", ref, html.EscapeString(payloadString(n, "refund_status")))
	case entity.EventBookingCompleted:
		subject = "Thanks for visiting"
		headline = "Visit completed"
		text = fmt.Sprintf("Booking <strong>%s</strong> is complete.", ref)
	default:
		return "", "", false
	}

	body = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta http-equiv="Content-Type" content="text/html; charset=UTF-8" /><title>%s</title></head>
<body style="margin: 0; padding: 24px; font-family: Arial, sans-serif; background-color: #f7f9fc;">
	<h1 style="font-size: 22px; color: #333333;">%s</h1>
	<p style="font-size: 16px; color: #333333;">%s</p>
	<p style="font-size: 12px; color: #666666;">%s</p>
</body>
</html>`, subject, headline, text, html.EscapeString(sender))

	return subject, body, true
}

func payloadString(n entity.Notification, key string) string {
	if v, ok := n.Payload[key]; ok {
		return fmt.Sprint(v)
	}
	return ""
}
