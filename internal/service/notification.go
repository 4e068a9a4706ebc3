package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers a single email. Implementations must be safe for
// concurrent use.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SendGridSender delivers emails through the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

// NewSendGridSender creates a SendGrid-backed sender.
func NewSendGridSender(apiKey, fromName, fromEmail string) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send delivers one email via SendGrid.
func (s *SendGridSender) Send(ctx context.Context, to, subject, html string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), "", html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes emails to the log instead of delivering them. Used when no
// SendGrid key is configured (local development).
type LogSender struct{}

// Send logs the email.
func (LogSender) Send(_ context.Context, to, subject, _ string) error {
	log.Printf("[EMAIL] to=%s subject=%q", to, subject)
	return nil
}

// Ensure senders implement EmailSender.
var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = LogSender{}
)

// BookingConfirmationDetails carries the booking facts included in the
// confirmation email.
type BookingConfirmationDetails struct {
	BookingID   string
	VehicleInfo string
	StartDate   time.Time
	EndDate     time.Time
	TotalCost   float64
}

// TripCompletionDetails carries the trip facts included in the completion email.
type TripCompletionDetails struct {
	TripID        string
	VehicleInfo   string
	StartTime     time.Time
	EndTime       time.Time
	StartOdometer int64
	EndOdometer   int64
}

// TripCancellationDetails carries the facts included in the cancellation email.
type TripCancellationDetails struct {
	TripID      string
	BookingID   string
	VehicleInfo string
}

// NotificationService composes and sends customer notifications. Delivery is
// fire-and-forget: failures are logged and never propagated, so the state
// transition that triggered the notification always stands.
type NotificationService struct {
	sender EmailSender
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(sender EmailSender) *NotificationService {
	return &NotificationService{sender: sender}
}

// SendBookingConfirmation notifies the customer that their booking is confirmed.
func (s *NotificationService) SendBookingConfirmation(ctx context.Context, customerEmail string, d BookingConfirmationDetails) {
	html := fmt.Sprintf(`
		<h1>Booking Confirmation</h1>
		<p>Your booking has been confirmed!</p>
		<h2>Booking Details:</h2>
		<ul>
			<li><strong>Booking ID:</strong> %s</li>
			<li><strong>Vehicle:</strong> %s</li>
			<li><strong>Start Date:</strong> %s</li>
			<li><strong>End Date:</strong> %s</li>
			<li><strong>Total Cost:</strong> $%.2f</li>
		</ul>
		<p>Thank you for choosing our fleet service!</p>`,
		d.BookingID, d.VehicleInfo,
		d.StartDate.Format("02 Jan 2006"), d.EndDate.Format("02 Jan 2006"), d.TotalCost)

	s.deliver(ctx, customerEmail, "Booking Confirmation - Fleet Rental", html)
}

// SendTripCompletion notifies the customer that their trip has been completed.
func (s *NotificationService) SendTripCompletion(ctx context.Context, customerEmail string, d TripCompletionDetails) {
	distance := d.EndOdometer - d.StartOdometer
	html := fmt.Sprintf(`
		<h1>Trip Completed</h1>
		<p>Your trip has been completed successfully!</p>
		<h2>Trip Details:</h2>
		<ul>
			<li><strong>Trip ID:</strong> %s</li>
			<li><strong>Vehicle:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
			<li><strong>Distance Traveled:</strong> %d km</li>
		</ul>
		<p>Thank you for using our service!</p>`,
		d.TripID, d.VehicleInfo,
		d.StartTime.Format(time.RFC1123), d.EndTime.Format(time.RFC1123), distance)

	s.deliver(ctx, customerEmail, "Trip Completed - Fleet Rental", html)
}

// SendTripCancellation notifies the customer that their trip was cancelled.
func (s *NotificationService) SendTripCancellation(ctx context.Context, customerEmail string, d TripCancellationDetails) {
	html := fmt.Sprintf(`
		<h1>Trip Cancelled</h1>
		<p>Your trip has been cancelled.</p>
		<h2>Cancellation Details:</h2>
		<ul>
			<li><strong>Trip ID:</strong> %s</li>
			<li><strong>Booking ID:</strong> %s</li>
			<li><strong>Vehicle:</strong> %s</li>
		</ul>
		<p>If you have any questions, please contact our support team.</p>`,
		d.TripID, d.BookingID, d.VehicleInfo)

	s.deliver(ctx, customerEmail, "Trip Cancelled - Fleet Rental", html)
}

func (s *NotificationService) deliver(ctx context.Context, to, subject, html string) {
	if to == "" {
		return
	}
	if err := s.sender.Send(ctx, to, subject, html); err != nil {
		log.Printf("failed to send email %q to %s: %v", subject, to, err)
	}
}
