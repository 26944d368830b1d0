package service

import (
	"context"

	"stayride-backend/internal/pricing"
	"stayride-backend/internal/repository"
)

type earningsService struct {
	reservationRepo repository.ReservationRepository
	paymentRepo     repository.PaymentRepository
	refundRepo      repository.RefundRepository
	markupRepo      repository.MarkupRepository
	listingRepo     repository.ListingRepository
	configRepo      repository.PlatformConfigRepository
	defaultFee      float64
	calc            *pricing.RefundCalculator
}

func NewEarningsService(
	reservationRepo repository.ReservationRepository,
	paymentRepo repository.PaymentRepository,
	refundRepo repository.RefundRepository,
	markupRepo repository.MarkupRepository,
	listingRepo repository.ListingRepository,
	configRepo repository.PlatformConfigRepository,
	defaultFeePercent float64,
	calc *pricing.RefundCalculator,
) EarningsService {
	if calc == nil {
		calc = pricing.NewRefundCalculator(nil)
	}
	return &earningsService{
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		refundRepo:      refundRepo,
		markupRepo:      markupRepo,
		listingRepo:     listingRepo,
		configRepo:      configRepo,
		defaultFee:      defaultFeePercent,
		calc:            calc,
	}
}

// feePercent resolves the platform fee: the stored configuration wins,
// otherwise the configured default applies.
func (s *earningsService) feePercent(ctx context.Context) float64 {
	configured, err := s.configRepo.GetFeePercentage(ctx)
	if err != nil {
		return s.defaultFee
	}
	return pricing.FeePercentage(configured, s.defaultFee)
}

func (s *earningsService) MarkupProfit(ctx context.Context, reservationID int32) (float64, error) {
	rv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return 0, err
	}
	if rv.MarkupUserID == nil {
		return 0, nil
	}

	listing, err := s.listingRepo.GetByID(ctx, rv.ListingID)
	if err != nil {
		return 0, err
	}

	if rv.MarkupID != nil {
		m, err := s.markupRepo.GetByID(ctx, *rv.MarkupID)
		if err != nil {
			return 0, err
		}
		if m != nil {
			return pricing.MarkupProfit(rv, m, listing, s.feePercent(ctx)), nil
		}
	}
	return pricing.MarkupProfit(rv, nil, listing, s.feePercent(ctx)), nil
}

func (s *earningsService) PayoutBreakdown(ctx context.Context, reservationID int32) (*PayoutBreakdown, error) {
	rv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	fee := s.feePercent(ctx)
	platformFee := pricing.PlatformFee(rv.TotalPrice, fee)

	profit, err := s.MarkupProfit(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetActiveByReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	refunds, err := s.refundRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	maxRefundable, err := s.calc.MaxRefundable(rv, payment, refunds)
	if err != nil {
		return nil, err
	}

	return &PayoutBreakdown{
		TotalPrice:    rv.TotalPrice,
		FeePercent:    fee,
		PlatformFee:   platformFee,
		HostPayout:    pricing.HostPayout(rv.TotalPrice, fee),
		MarkupProfit:  profit,
		MaxRefundable: maxRefundable,
	}, nil
}
