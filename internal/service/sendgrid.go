package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewSendGridService sends mail through the SendGrid API instead of SMTP.
func NewSendGridService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}

func (s *sendGridService) SendBookingConfirmation(ctx context.Context, email, name, bookingNumber, verificationCode string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour booking %s has been created.\n\nYour verification code is: %s", name, bookingNumber, verificationCode)
	return s.send(email, name, fmt.Sprintf("Booking Confirmation - %s", bookingNumber), body)
}

func (s *sendGridService) SendRefundApprovedNotification(ctx context.Context, email, name, bookingNumber string, amount float64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour refund request for booking %s has been approved.\n\nRefund amount: %.2f", name, bookingNumber, amount)
	return s.send(email, name, fmt.Sprintf("Refund Approved - %s", bookingNumber), body)
}

func (s *sendGridService) SendRefundRejectedNotification(ctx context.Context, email, name, bookingNumber, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour refund request for booking %s has been rejected.\n\nReason: %s", name, bookingNumber, reason)
	return s.send(email, name, fmt.Sprintf("Refund Update - %s", bookingNumber), body)
}

func (s *sendGridService) SendCancellationNotification(ctx context.Context, email, name, bookingNumber string, refundable float64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour booking %s has been cancelled.", name, bookingNumber)
	if refundable > 0 {
		body += fmt.Sprintf("\n\nRefundable amount: %.2f", refundable)
	}
	return s.send(email, name, fmt.Sprintf("Booking Cancelled - %s", bookingNumber), body)
}

func (s *sendGridService) SendAdminNotification(ctx context.Context, adminEmail, subject, message string) error {
	return s.send(adminEmail, "", subject, message)
}
