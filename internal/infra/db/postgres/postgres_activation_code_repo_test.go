//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"meditation-premium-service/internal/domain"
	"meditation-premium-service/internal/domain/model"
)

func newStoredCode(digest string, days int) *model.ActivationCode {
	return &model.ActivationCode{
		ID:           uuid.NewString(),
		CodeHash:     digest,
		DurationDays: days,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestActivationCodeRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewActivationCodeRepo(testPool)

	t.Run("should save and find a code by digest", func(t *testing.T) {
		cleanup(t)

		code := newStoredCode("digest-save-find", 30)
		if err := repo.Save(ctx, nil, code); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		found, err := repo.FindByDigest(ctx, nil, "digest-save-find")
		if err != nil {
			t.Fatalf("FindByDigest failed: %v", err)
		}
		if found.ID != code.ID || found.DurationDays != 30 || found.IsUsed {
			t.Errorf("found = %+v, want unused 30-day code %s", found, code.ID)
		}
	})

	t.Run("should report unknown digests distinctly", func(t *testing.T) {
		cleanup(t)

		_, err := repo.FindByDigest(ctx, nil, "never-issued")
		if !errors.Is(err, domain.ErrCodeNotFound) {
			t.Errorf("err = %v, want ErrCodeNotFound", err)
		}
	})

	t.Run("should reject duplicate digests", func(t *testing.T) {
		cleanup(t)

		if err := repo.Save(ctx, nil, newStoredCode("digest-dup", 30)); err != nil {
			t.Fatalf("first Save failed: %v", err)
		}
		err := repo.Save(ctx, nil, newStoredCode("digest-dup", 60))
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("duplicate Save err = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("should redeem exactly once", func(t *testing.T) {
		cleanup(t)

		if err := repo.Save(ctx, nil, newStoredCode("digest-redeem", 30)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		at := time.Now().UTC()
		if err := repo.Redeem(ctx, nil, "digest-redeem", "winner", at); err != nil {
			t.Fatalf("first Redeem failed: %v", err)
		}

		found, err := repo.FindByDigest(ctx, nil, "digest-redeem")
		if err != nil {
			t.Fatalf("FindByDigest failed: %v", err)
		}
		if !found.IsUsed || found.RedeemedByUserID == nil || *found.RedeemedByUserID != "winner" {
			t.Errorf("redeemed code = %+v, want used by winner", found)
		}
		if found.ActivatedAt == nil {
			t.Fatal("ActivatedAt not recorded")
		}

		err = repo.Redeem(ctx, nil, "digest-redeem", "loser", time.Now().UTC())
		if !errors.Is(err, domain.ErrCodeAlreadyUsed) {
			t.Errorf("second Redeem err = %v, want ErrCodeAlreadyUsed", err)
		}
	})

	t.Run("concurrent redeems elect a single winner", func(t *testing.T) {
		cleanup(t)

		if err := repo.Save(ctx, nil, newStoredCode("digest-race", 30)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		const contenders = 16
		var wg sync.WaitGroup
		wins := make(chan string, contenders)
		for i := 0; i < contenders; i++ {
			wg.Add(1)
			go func(user string) {
				defer wg.Done()
				if err := repo.Redeem(ctx, nil, "digest-race", user, time.Now().UTC()); err == nil {
					wins <- user
				}
			}(uuid.NewString())
		}
		wg.Wait()
		close(wins)

		var winners []string
		for w := range wins {
			winners = append(winners, w)
		}
		if len(winners) != 1 {
			t.Fatalf("got %d winners, want exactly 1", len(winners))
		}

		found, err := repo.FindByDigest(ctx, nil, "digest-race")
		if err != nil {
			t.Fatalf("FindByDigest failed: %v", err)
		}
		if found.RedeemedByUserID == nil || *found.RedeemedByUserID != winners[0] {
			t.Errorf("recorded owner = %v, want %s", found.RedeemedByUserID, winners[0])
		}
	})

	t.Run("should list a user's redemptions newest first", func(t *testing.T) {
		cleanup(t)

		first := newStoredCode("digest-hist-1", 30)
		second := newStoredCode("digest-hist-2", 60)
		for _, c := range []*model.ActivationCode{first, second} {
			if err := repo.Save(ctx, nil, c); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
		}
		base := time.Now().UTC().Add(-time.Hour)
		if err := repo.Redeem(ctx, nil, first.CodeHash, "u1", base); err != nil {
			t.Fatalf("Redeem failed: %v", err)
		}
		if err := repo.Redeem(ctx, nil, second.CodeHash, "u1", base.Add(30*time.Minute)); err != nil {
			t.Fatalf("Redeem failed: %v", err)
		}

		history, err := repo.FindByUser(ctx, nil, "u1")
		if err != nil {
			t.Fatalf("FindByUser failed: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("history len = %d, want 2", len(history))
		}
		if history[0].CodeHash != second.CodeHash {
			t.Errorf("history[0] = %s, want most recent %s", history[0].CodeHash, second.CodeHash)
		}

		empty, err := repo.FindByUser(ctx, nil, "nobody")
		if err != nil {
			t.Fatalf("FindByUser for unknown user failed: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("expected empty history, got %d entries", len(empty))
		}
	})
}
