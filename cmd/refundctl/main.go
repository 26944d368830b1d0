package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"stayride-backend/internal/config"
	"stayride-backend/internal/events"
	"stayride-backend/internal/idempotency"
	"stayride-backend/internal/logger"
	"stayride-backend/internal/pricing"
	"stayride-backend/internal/repository/postgres"
	"stayride-backend/internal/service"
)

// refundctl is the operator console for a booking: refund decisions,
// payment capture and the renter's notification feed. Approvals and
// rejections are terminal, so they run from here rather than an
// exposed API.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	booking := flag.String("booking", "", "Booking number of the reservation")
	approve := flag.Float64("approve", 0, "Approve a refund of this amount")
	reject := flag.String("reject", "", "Reject the refund request with this reason")
	requestKey := flag.String("request-key", "", "Idempotency key for the approval (retries with the same key are no-ops)")
	show := flag.Bool("show", false, "Print the payout breakdown and maximum refundable amount")
	pay := flag.String("pay", "", "Record a completed payment taken via this method (e.g. card, transfer)")
	payRef := flag.String("pay-ref", "", "Processor charge reference for -pay")
	notifications := flag.Bool("notifications", false, "List the renter's notifications")
	markRead := flag.Int("mark-read", 0, "Mark the renter's notification with this id as read")
	flag.Parse()

	if *booking == "" {
		fmt.Fprintln(os.Stderr, "refundctl: -booking is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store := postgres.NewStore(db)

	requests, err := idempotency.Open(cfg.Idempotency.Path)
	if err != nil {
		log.Fatalf("Failed to open idempotency store: %v", err)
	}
	defer requests.Close()

	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Fatalf("Failed to connect Kafka publisher: %v", err)
		}
	} else {
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	var emailService service.EmailService
	switch cfg.Email.Provider {
	case "sendgrid":
		emailService = service.NewSendGridService(cfg.Email.SendGridAPIKey, cfg.Email.From, "StayRide")
	default:
		emailService = service.NewEmailService(
			cfg.Email.Host,
			fmt.Sprintf("%d", cfg.Email.Port),
			cfg.Email.User,
			cfg.Email.Password,
			cfg.Email.From,
		)
	}

	calc := pricing.NewRefundCalculator(nil)

	refundService := service.NewRefundService(
		store.ReservationRepository,
		store.PaymentRepository,
		store.RefundRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailService,
		publisher,
		requests,
		calc,
	)

	reservationService := service.NewReservationService(
		store.ReservationRepository,
		store.ListingRepository,
		store.MarkupRepository,
		store.PaymentRepository,
		store.RefundRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailService,
		publisher,
		cfg.Booking.PropertyPrefix,
		cfg.Booking.CarPrefix,
		nil,
	)

	notificationService := service.NewNotificationService(store.NotificationRepository)

	earningsService := service.NewEarningsService(
		store.ReservationRepository,
		store.PaymentRepository,
		store.RefundRepository,
		store.MarkupRepository,
		store.ListingRepository,
		store.PlatformConfigRepository,
		cfg.Billing.PlatformFeePercent,
		calc,
	)

	ctx := context.Background()

	rv, err := store.GetByBookingNumber(ctx, *booking)
	if err != nil {
		log.Fatalf("Failed to load reservation %s: %v", *booking, err)
	}

	switch {
	case *approve > 0:
		refund, err := refundService.ApproveRefund(ctx, rv.ID, *approve, *requestKey)
		if err != nil {
			log.Fatalf("Approval failed: %v", err)
		}
		fmt.Printf("Approved refund of %.2f for %s (reference %s)\n", refund.Amount, *booking, refund.Reference)

	case *reject != "":
		if _, err := refundService.RejectRefund(ctx, rv.ID, *reject); err != nil {
			log.Fatalf("Rejection failed: %v", err)
		}
		fmt.Printf("Rejected refund request for %s: %s\n", *booking, *reject)

	case *show:
		breakdown, err := earningsService.PayoutBreakdown(ctx, rv.ID)
		if err != nil {
			log.Fatalf("Failed to compute payout breakdown: %v", err)
		}
		eligible, err := refundService.CanProcessRefund(ctx, rv.ID)
		if err != nil {
			log.Fatalf("Failed to check refund eligibility: %v", err)
		}
		fmt.Printf("Booking:         %s (%s, %s)\n", rv.BookingNumber, rv.Vertical, rv.Status)
		fmt.Printf("Total price:     %.2f\n", breakdown.TotalPrice)
		fmt.Printf("Platform fee:    %.2f (%.1f%%)\n", breakdown.PlatformFee, breakdown.FeePercent)
		fmt.Printf("Host payout:     %.2f\n", breakdown.HostPayout)
		fmt.Printf("Markup profit:   %.2f\n", breakdown.MarkupProfit)
		fmt.Printf("Max refundable:  %.2f\n", breakdown.MaxRefundable)
		fmt.Printf("Decision open:   %t\n", eligible)

	case *pay != "":
		payment, err := reservationService.RecordPayment(ctx, rv.RenterID, rv.ID, *pay, *payRef)
		if err != nil {
			log.Fatalf("Payment failed: %v", err)
		}
		fmt.Printf("Recorded %s payment of %.2f for %s\n", payment.Method, payment.Amount, *booking)

	case *notifications:
		notes, total, err := notificationService.GetNotifications(ctx, rv.RenterID, 1, 50)
		if err != nil {
			log.Fatalf("Failed to list notifications: %v", err)
		}
		fmt.Printf("Notifications for renter %d (%d total):\n", rv.RenterID, total)
		for _, n := range notes {
			read := " "
			if n.IsRead {
				read = "x"
			}
			fmt.Printf("  [%s] #%d %s: %s (%s)\n", read, n.ID, n.Title, n.Message, n.CreatedOn)
		}

	case *markRead > 0:
		if err := notificationService.MarkAsRead(ctx, rv.RenterID, int32(*markRead)); err != nil {
			log.Fatalf("Failed to mark notification as read: %v", err)
		}
		fmt.Printf("Marked notification %d as read\n", *markRead)

	default:
		fmt.Fprintln(os.Stderr, "refundctl: one of -approve, -reject, -show, -pay, -notifications or -mark-read is required")
		flag.Usage()
		os.Exit(2)
	}
}
