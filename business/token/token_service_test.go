//go:build !integration

package token

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"instaWin/domain"

	"github.com/pobyzaarif/goshortcute"
)

type fakeTokenRepo struct {
	created []domain.Token
	err     error
}

func (f *fakeTokenRepo) BatchCreate(ctx context.Context, tokens []domain.Token) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, tokens...)
	return nil
}

type fakePromoRepo struct {
	promo domain.Promotion
	miss  bool
}

func (f *fakePromoRepo) FindByID(ctx context.Context, id uint) (domain.Promotion, bool, error) {
	if f.miss {
		return domain.Promotion{}, false, nil
	}
	return f.promo, true, nil
}

func activePromo() domain.Promotion {
	now := time.Now()
	return domain.Promotion{
		ID:       1,
		Name:     "store opening",
		Status:   domain.PromotionStatusActive,
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
	}
}

func TestIssueBatch(t *testing.T) {
	repo := &fakeTokenRepo{}
	svc := NewTokenService(repo, &fakePromoRepo{promo: activePromo()})

	issued, err := svc.IssueBatch(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issued) != 5 {
		t.Fatalf("expected 5 issued tokens, got %d", len(issued))
	}
	if len(repo.created) != 5 {
		t.Fatalf("expected 5 persisted tokens, got %d", len(repo.created))
	}

	seen := make(map[string]bool)
	for i, tok := range issued {
		if tok.Code == "" {
			t.Fatalf("token %d has an empty code", i)
		}
		if seen[tok.Code] {
			t.Fatalf("duplicate code %q", tok.Code)
		}
		seen[tok.Code] = true

		decoded := goshortcute.StringtoBase64Decode(tok.QRPayload)
		want := fmt.Sprintf("1:%s", tok.Code)
		if decoded != want {
			t.Fatalf("token %d: payload decodes to %q, want %q", i, decoded, want)
		}

		if repo.created[i].Status != domain.TokenStatusAvailable {
			t.Fatalf("token %d persisted with status %q", i, repo.created[i].Status)
		}
		if repo.created[i].PromotionID != 1 {
			t.Fatalf("token %d persisted for promotion %d", i, repo.created[i].PromotionID)
		}
	}
}

func TestIssueBatch_BatchSizeLimits(t *testing.T) {
	svc := NewTokenService(&fakeTokenRepo{}, &fakePromoRepo{promo: activePromo()})

	for _, n := range []int{0, -1, maxBatchSize + 1} {
		if _, err := svc.IssueBatch(context.Background(), 1, n); err == nil {
			t.Fatalf("expected rejection of batch size %d", n)
		}
	}
}

func TestIssueBatch_PromotionGuards(t *testing.T) {
	t.Run("unknown promotion", func(t *testing.T) {
		svc := NewTokenService(&fakeTokenRepo{}, &fakePromoRepo{miss: true})

		_, err := svc.IssueBatch(context.Background(), 9, 5)
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("closed promotion", func(t *testing.T) {
		promo := activePromo()
		promo.Status = domain.PromotionStatusClosed
		svc := NewTokenService(&fakeTokenRepo{}, &fakePromoRepo{promo: promo})

		_, err := svc.IssueBatch(context.Background(), 1, 5)
		if err == nil || !strings.Contains(err.Error(), "closed") {
			t.Fatalf("expected closed error, got %v", err)
		}
	})

	t.Run("draft promotion can mint ahead of launch", func(t *testing.T) {
		promo := activePromo()
		promo.Status = domain.PromotionStatusDraft
		svc := NewTokenService(&fakeTokenRepo{}, &fakePromoRepo{promo: promo})

		if _, err := svc.IssueBatch(context.Background(), 1, 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
