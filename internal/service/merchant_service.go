package service

import (
	"context"
	"time"

	"qr-settlement-gateway/internal/core/domain"
	"qr-settlement-gateway/internal/core/ports"
	"qr-settlement-gateway/internal/emv"
	"qr-settlement-gateway/pkg/apperror"

	"github.com/google/uuid"
)

type merchantService struct {
	merchantRepo ports.MerchantRepository
}

// NewMerchantService creates a new merchant management service.
func NewMerchantService(merchantRepo ports.MerchantRepository) ports.MerchantService {
	return &merchantService{merchantRepo: merchantRepo}
}

func (s *merchantService) Register(ctx context.Context, req ports.RegisterMerchantRequest) (*domain.Merchant, error) {
	// Enforce the payload field limits at onboarding so every registered
	// merchant can be encoded into a QR later.
	if req.Name == "" {
		return nil, apperror.Validation("merchant name is required")
	}
	if len(req.Name) > emv.MaxMerchantNameLen {
		return nil, apperror.Validation("merchant name exceeds the 25 character limit")
	}
	if req.City != nil && len(*req.City) > emv.MaxMerchantCityLen {
		return nil, apperror.Validation("merchant city exceeds the 15 character limit")
	}
	if req.WalletAddress == "" {
		return nil, apperror.Validation("wallet address is required")
	}

	now := time.Now().UTC()
	merchant := &domain.Merchant{
		ID:            uuid.New(),
		Name:          req.Name,
		City:          req.City,
		WalletAddress: req.WalletAddress,
		Status:        domain.MerchantStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.merchantRepo.Create(ctx, merchant); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return merchant, nil
}

func (s *merchantService) Get(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if merchant == nil {
		return nil, apperror.ErrNotFound("merchant")
	}
	return merchant, nil
}

func (s *merchantService) SetStatus(ctx context.Context, id uuid.UUID, status domain.MerchantStatus) (*domain.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if merchant == nil {
		return nil, apperror.ErrNotFound("merchant")
	}

	merchant.Status = status
	merchant.UpdatedAt = time.Now().UTC()

	if err := s.merchantRepo.Update(ctx, merchant); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return merchant, nil
}
