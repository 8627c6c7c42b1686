package service

import (
	"context"
	"time"

	"qr-settlement-gateway/internal/core/domain"
	"qr-settlement-gateway/internal/core/ports"
	"qr-settlement-gateway/internal/emv"
	"qr-settlement-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultSessionTTL = 15 * time.Minute
	defaultTolerance  = 5.0
)

// PaymentConfig tunes the orchestration layer. Zero values fall back to the
// defaults above.
type PaymentConfig struct {
	SessionTTL       time.Duration
	TolerancePercent float64
	FiatCurrency     string
}

// PaymentServiceImpl implements ports.PaymentService. It wires merchants and
// payment sessions to the QR codec and the price oracle; the heavy lifting
// lives in those collaborators.
type PaymentServiceImpl struct {
	merchantRepo ports.MerchantRepository
	paymentRepo  ports.PaymentRepository
	oracle       ports.OracleService
	qr           ports.QRService
	cfg          PaymentConfig
	log          zerolog.Logger

	now func() time.Time
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	merchantRepo ports.MerchantRepository,
	paymentRepo ports.PaymentRepository,
	oracle ports.OracleService,
	qr ports.QRService,
	cfg PaymentConfig,
	log zerolog.Logger,
) *PaymentServiceImpl {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.TolerancePercent <= 0 {
		cfg.TolerancePercent = defaultTolerance
	}
	if cfg.FiatCurrency == "" {
		cfg.FiatCurrency = "ARS"
	}
	return &PaymentServiceImpl{
		merchantRepo: merchantRepo,
		paymentRepo:  paymentRepo,
		oracle:       oracle,
		qr:           qr,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
	}
}

// CreatePaymentQR issues a new payment session: prices the fiat amount into
// the target crypto, persists the session, and returns the sealed payload
// plus its PNG rendering.
func (s *PaymentServiceImpl) CreatePaymentQR(ctx context.Context, req ports.CreateQRRequest) (*ports.CreateQRResult, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, req.MerchantID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if merchant == nil {
		return nil, apperror.ErrNotFound("merchant")
	}
	if !merchant.IsActive() {
		return nil, apperror.ErrMerchantSuspended()
	}

	conv, err := s.oracle.ConvertFiatToCrypto(ctx, req.AmountFiat, req.TargetCrypto)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	payment := &domain.Payment{
		ID:           uuid.New(),
		MerchantID:   merchant.ID,
		SessionID:    emv.NewSessionID(),
		AmountFiat:   req.AmountFiat,
		Currency:     s.cfg.FiatCurrency,
		TargetCrypto: req.TargetCrypto,
		CryptoAmount: conv.AmountCryptoWithMargin,
		ExchangeRate: conv.Rate,
		Status:       domain.PaymentStatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.cfg.SessionTTL),
	}

	merchantInfo := emv.MerchantInfo{
		ID:   merchant.ID.String(),
		Name: merchant.Name,
	}
	if merchant.City != nil {
		merchantInfo.City = *merchant.City
	}
	paymentInfo := emv.PaymentInfo{
		AmountFiat:   payment.AmountFiat,
		TargetCrypto: payment.TargetCrypto,
		Wallet:       merchant.WalletAddress,
		CryptoAmount: payment.CryptoAmount,
		ExchangeRate: payment.ExchangeRate,
		SessionID:    payment.SessionID,
	}

	// Generate before persisting so a validation failure never leaves an
	// orphaned session behind.
	payload, err := s.qr.Generate(merchantInfo, paymentInfo)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	png, err := s.qr.Render(payload, ports.RenderOptions{})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("session_id", payment.SessionID).
		Str("merchant_id", merchant.ID.String()).
		Str("amount_fiat", payment.AmountFiat.String()).
		Str("target_crypto", payment.TargetCrypto).
		Str("rate_source", string(conv.Source)).
		Msg("payment qr issued")

	return &ports.CreateQRResult{
		Payment: payment,
		Payload: payload,
		PNG:     png,
	}, nil
}

// DecodeQR parses a scanned payload, matches it to a payment session, and
// revalidates the embedded rate against the live oracle before settlement.
func (s *PaymentServiceImpl) DecodeQR(ctx context.Context, payload string) (*ports.DecodeResult, error) {
	parsed, err := s.qr.Parse(payload)
	if err != nil {
		return nil, err
	}

	result := &ports.DecodeResult{Parsed: parsed}
	if !parsed.IsExtended {
		// Plain EMV payload: nothing to settle in crypto.
		return result, nil
	}

	now := s.now().UTC()
	if sessionID := parsed.Crypto.SessionID; sessionID != "" {
		payment, err := s.paymentRepo.GetBySessionID(ctx, sessionID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		if payment != nil {
			if payment.IsExpired(now) {
				if payment.Status == domain.PaymentStatusPending {
					if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusExpired); err != nil {
						s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to mark session expired")
					}
				}
				return nil, apperror.ErrSessionExpired()
			}
			if !payment.IsPayable(now) {
				return nil, apperror.ErrSessionNotPayable()
			}
			result.Payment = payment
		}
	}

	// Rate revalidation and settlement repricing are best-effort: a scan
	// still decodes when the oracle is briefly unavailable, the caller just
	// sees no rate check.
	expectedRate := parsed.Crypto.ExchangeRate.InexactFloat64()
	if expectedRate > 0 {
		check, err := s.oracle.ValidateRate(ctx, parsed.Crypto.TargetCrypto, expectedRate, s.cfg.TolerancePercent)
		if err != nil {
			s.log.Warn().Err(err).Str("asset", parsed.Crypto.TargetCrypto).Msg("rate revalidation unavailable")
		} else {
			result.RateCheck = check
			if !check.Valid {
				s.log.Warn().
					Float64("expected", check.ExpectedRate).
					Float64("current", check.CurrentRate).
					Float64("deviation_pct", check.DeviationPercent).
					Msg("scanned rate outside tolerance")
			}
		}
	}

	if amount := parsed.Standard.Amount; amount.Sign() > 0 {
		conv, err := s.oracle.ConvertFiatToCrypto(ctx, amount, parsed.Crypto.TargetCrypto)
		if err != nil {
			s.log.Warn().Err(err).Str("asset", parsed.Crypto.TargetCrypto).Msg("settlement repricing unavailable")
		} else {
			result.SettlementAmount = conv.AmountCryptoWithMargin
		}
	}

	return result, nil
}
