package memory

import (
	"context"
	"errors"
	"testing"

	"rpsbomb/internal/domain"
)

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore()
	state, ok, err := store.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if ok || state != nil {
		t.Fatalf("Load() = %v, %v; want nil, false", state, ok)
	}
}

func TestStoreSaveCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	state := domain.NewMatchState("m1")
	state.ApplyRound(domain.ValidateMove("rock", false), domain.MoveScissors, domain.OutcomeUserWin)

	if err := store.Save(ctx, "s1", state); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	// Mutating the caller's copy must not leak into the store.
	state.UserScore = 99
	state.History[0].Outcome = domain.OutcomeBotWin

	loaded, ok, err := store.Load(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("Load() ok=%v err=%v", ok, err)
	}
	if loaded.UserScore != 1 {
		t.Fatalf("UserScore = %d, want 1", loaded.UserScore)
	}
	if loaded.History[0].Outcome != domain.OutcomeUserWin {
		t.Fatalf("History[0].Outcome = %s, want user_win", loaded.History[0].Outcome)
	}

	loaded.History[0].Round = 42
	again, _, _ := store.Load(ctx, "s1")
	if again.History[0].Round != 1 {
		t.Fatalf("Load returned shared history")
	}
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	_ = store.Save(ctx, "a", domain.NewMatchState("ma"))
	_ = store.Save(ctx, "b", domain.NewMatchState("mb"))

	a, _, _ := store.Load(ctx, "a")
	b, _, _ := store.Load(ctx, "b")
	if a.ID != "ma" || b.ID != "mb" {
		t.Fatalf("ids = %s,%s; want ma,mb", a.ID, b.ID)
	}
	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "a"); ok {
		t.Fatal("session a still present after Delete")
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("second Delete error: %v", err)
	}
}

func TestStoreRejectsNilAndCancelled(t *testing.T) {
	store := NewStore()
	if err := store.Save(context.Background(), "s", nil); !errors.Is(err, ErrNilState) {
		t.Fatalf("Save(nil) err = %v, want ErrNilState", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := store.Load(ctx, "s"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load err = %v, want context.Canceled", err)
	}
}
