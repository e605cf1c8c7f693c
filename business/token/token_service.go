package token

import (
	"context"
	"errors"
	"fmt"

	"instaWin/domain"

	"github.com/google/uuid"
	"github.com/pobyzaarif/goshortcute"
)

// maxBatchSize caps one issuance request; campaigns mint tokens in batches.
const maxBatchSize = 10000

type TokenRepository interface {
	BatchCreate(ctx context.Context, tokens []domain.Token) error
}

type PromotionRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Promotion, bool, error)
}

type TokenService struct {
	tokenRepo TokenRepository
	promoRepo PromotionRepository
}

func NewTokenService(tokenRepo TokenRepository, promoRepo PromotionRepository) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		promoRepo: promoRepo,
	}
}

// IssueBatch mints n single-use tokens for a promotion and returns them with
// the base64 payloads that go into the printed QR codes. Tokens cannot be
// minted for a closed promotion.
func (s *TokenService) IssueBatch(ctx context.Context, promotionID uint, n int) ([]domain.IssuedToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if n <= 0 || n > maxBatchSize {
		return nil, fmt.Errorf("batch size must be in [1,%d]", maxBatchSize)
	}

	promo, ok, err := s.promoRepo.FindByID(ctx, promotionID)
	if err != nil {
		return nil, fmt.Errorf("load promotion: %w", err)
	}
	if !ok {
		return nil, errors.New("promotion not found")
	}
	if promo.Status == domain.PromotionStatusClosed {
		return nil, errors.New("promotion is closed")
	}

	tokens := make([]domain.Token, 0, n)
	issued := make([]domain.IssuedToken, 0, n)

	for i := 0; i < n; i++ {
		code := uuid.NewString()
		tokens = append(tokens, domain.Token{
			Code:        code,
			PromotionID: promotionID,
			Status:      domain.TokenStatusAvailable,
		})
		issued = append(issued, domain.IssuedToken{
			Code:      code,
			QRPayload: goshortcute.StringtoBase64Encode(fmt.Sprintf("%d:%s", promotionID, code)),
		})
	}

	if err := s.tokenRepo.BatchCreate(ctx, tokens); err != nil {
		return nil, fmt.Errorf("failed to create tokens: %w", err)
	}

	return issued, nil
}
