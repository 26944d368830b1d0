package service

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailService sends mail over plain SMTP via gomail.
func NewEmailService(host, port, username, password, from string) EmailService {
	p, _ := strconv.Atoi(port)
	return &emailService{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}

	return nil
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, email, name, bookingNumber, verificationCode string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour booking %s has been created.\n\nYour verification code is: %s\n\nPresent this code at check-in or key handover.\n\nBest regards,\nThe StayRide Team", name, bookingNumber, verificationCode)
	return s.send(email, fmt.Sprintf("Booking Confirmation - %s", bookingNumber), body)
}

func (s *emailService) SendRefundApprovedNotification(ctx context.Context, email, name, bookingNumber string, amount float64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour refund request for booking %s has been approved.\n\nRefund amount: %.2f\n\nThe amount will be returned to your original payment method.\n\nBest regards,\nThe StayRide Team", name, bookingNumber, amount)
	return s.send(email, fmt.Sprintf("Refund Approved - %s", bookingNumber), body)
}

func (s *emailService) SendRefundRejectedNotification(ctx context.Context, email, name, bookingNumber, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour refund request for booking %s has been rejected.\n\nReason: %s\n\nBest regards,\nThe StayRide Team", name, bookingNumber, reason)
	return s.send(email, fmt.Sprintf("Refund Update - %s", bookingNumber), body)
}

func (s *emailService) SendCancellationNotification(ctx context.Context, email, name, bookingNumber string, refundable float64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour booking %s has been cancelled.", name, bookingNumber)
	if refundable > 0 {
		body += fmt.Sprintf("\n\nRefundable amount: %.2f", refundable)
	}
	body += "\n\nBest regards,\nThe StayRide Team"
	return s.send(email, fmt.Sprintf("Booking Cancelled - %s", bookingNumber), body)
}

func (s *emailService) SendAdminNotification(ctx context.Context, adminEmail, subject, message string) error {
	return s.send(adminEmail, subject, message)
}
