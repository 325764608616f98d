package client

import (
	"testing"

	"moneytrack/model"
)

func TestStoreMissingKeyLeavesDestEmpty(t *testing.T) {
	store := newTestStore(t)

	txs := []model.Transaction{}
	if err := store.GetList(KeyTransactionList, &txs); err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected empty list for missing key, got %d items", len(txs))
	}
}

func TestStoreListRoundTrip(t *testing.T) {
	store := newTestStore(t)

	want := []model.Transaction{testTx("a", 10), testTx("b", -35)}
	if err := store.SetList(KeyTransactionList, want); err != nil {
		t.Fatalf("SetList: %v", err)
	}

	got := []model.Transaction{}
	if err := store.GetList(KeyTransactionList, &got); err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || !got[i].Amount.Equal(want[i].Amount) || got[i].Category != want[i].Category {
			t.Errorf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStoreScalarOverwrite(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set(KeyAccessToken, "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(KeyAccessToken, "second"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(KeyAccessToken)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "second" {
		t.Errorf("Get = %q, want %q", got, "second")
	}

	if err := store.Delete(KeyAccessToken); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(KeyAccessToken); got != "" {
		t.Errorf("Get after delete = %q, want empty", got)
	}
}

func TestSessionAuthentication(t *testing.T) {
	store := newTestStore(t)
	session := NewSession(store)

	if session.IsAuthenticated() {
		t.Fatal("fresh session should not be authenticated")
	}

	if err := session.SetProfile(model.User{ID: "u1", Username: "an", Email: "an@example.com"}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	if session.IsAuthenticated() {
		t.Fatal("profile without token should not be authenticated")
	}

	if err := session.SetTokens("access", "refresh"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if !session.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}

	if session.Settings().SyncToCloud {
		t.Fatal("sync should default to off")
	}
	if err := session.SetSyncToCloud(true); err != nil {
		t.Fatalf("SetSyncToCloud: %v", err)
	}
	if !session.Settings().SyncToCloud {
		t.Fatal("expected sync enabled")
	}

	if err := session.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if session.IsAuthenticated() {
		t.Fatal("cleared session should not be authenticated")
	}
}
