package client

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"moneytrack/model"
)

// fakeRemote records calls and fails on demand, standing in for the API.
type fakeRemote struct {
	getAllResult []model.Transaction
	getAllErr    error
	createErr    error
	updateErr    error
	deleteErr    error
	bulkCreateErr error
	bulkUpdateErr error
	bulkDeleteErr error

	createCalls     int
	bulkCreateCalls [][]model.Transaction
	bulkUpdateCalls [][]model.Transaction
	bulkDeleteCalls [][]string
}

func (f *fakeRemote) GetAll(ctx context.Context) ([]model.Transaction, error) {
	return f.getAllResult, f.getAllErr
}

func (f *fakeRemote) Create(ctx context.Context, tx model.Transaction) error {
	f.createCalls++
	return f.createErr
}

func (f *fakeRemote) Update(ctx context.Context, tx model.Transaction) error {
	return f.updateErr
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	return f.deleteErr
}

func (f *fakeRemote) BulkCreate(ctx context.Context, txs []model.Transaction) error {
	f.bulkCreateCalls = append(f.bulkCreateCalls, txs)
	return f.bulkCreateErr
}

func (f *fakeRemote) BulkUpdate(ctx context.Context, txs []model.Transaction) error {
	f.bulkUpdateCalls = append(f.bulkUpdateCalls, txs)
	return f.bulkUpdateErr
}

func (f *fakeRemote) BulkDelete(ctx context.Context, ids []string) error {
	f.bulkDeleteCalls = append(f.bulkDeleteCalls, ids)
	return f.bulkDeleteErr
}

func newTestTracker(t *testing.T, remote *fakeRemote) (*Tracker, *Session) {
	t.Helper()
	store := newTestStore(t)
	session := NewSession(store)
	tracker := NewTracker(store, remote, session, nil)
	if err := tracker.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tracker, session
}

func signIn(t *testing.T, session *Session) {
	t.Helper()
	if err := session.SetProfile(model.User{ID: "u1", Username: "an", Email: "an@example.com"}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	if err := session.SetTokens("access", "refresh"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if err := session.SetSyncToCloud(true); err != nil {
		t.Fatalf("SetSyncToCloud: %v", err)
	}
}

func TestCreateOfflineIsOptimisticAndQueued(t *testing.T) {
	remote := &fakeRemote{}
	tracker, _ := newTestTracker(t, remote)

	created, err := tracker.Create(context.Background(), model.Transaction{
		Description: "  coffee  ",
		Amount:      decimal.NewFromInt(3),
		Category:    model.Category{Code: model.CategoryFood, Name: "Food"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if created.Description != "coffee" {
		t.Errorf("description = %q, want trimmed %q", created.Description, "coffee")
	}
	if created.ExpenseDate == nil {
		t.Error("expected expense date to default to creation time")
	}

	txs := tracker.Transactions()
	if len(txs) != 1 || txs[0].ID != created.ID {
		t.Fatalf("expected the transaction in the cache, got %+v", txs)
	}

	entries := mustList(t, NewQueue(tracker.store))
	if len(entries) != 1 || entries[0].Operation != model.OpCreate {
		t.Fatalf("expected one pending create, got %+v", entries)
	}
	if remote.createCalls != 0 {
		t.Errorf("remote create called %d times while offline, want 0", remote.createCalls)
	}
}

func TestCreateFallsBackToQueueOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{createErr: errors.New("connection refused")}
	tracker, session := newTestTracker(t, remote)
	signIn(t, session)

	created, err := tracker.Create(context.Background(), testTx("", 10))
	if err != nil {
		t.Fatalf("Create should recover remote failures, got %v", err)
	}

	if remote.createCalls != 1 {
		t.Fatalf("remote create calls = %d, want 1", remote.createCalls)
	}
	if len(tracker.Transactions()) != 1 {
		t.Fatal("optimistic cache update missing")
	}
	entries := mustList(t, NewQueue(tracker.store))
	if len(entries) != 1 || entries[0].Operation != model.OpCreate || entries[0].Transaction.ID != created.ID {
		t.Fatalf("expected pending create for %s, got %+v", created.ID, entries)
	}
}

func TestCreateOnlineDoesNotQueue(t *testing.T) {
	remote := &fakeRemote{}
	tracker, session := newTestTracker(t, remote)
	signIn(t, session)

	if _, err := tracker.Create(context.Background(), testTx("", 10)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if remote.createCalls != 1 {
		t.Fatalf("remote create calls = %d, want 1", remote.createCalls)
	}
	if entries := mustList(t, NewQueue(tracker.store)); len(entries) != 0 {
		t.Fatalf("expected empty queue, got %+v", entries)
	}
}

func TestCreateThenRemoveOfflineLeavesNothing(t *testing.T) {
	tracker, _ := newTestTracker(t, &fakeRemote{})

	created, err := tracker.Create(context.Background(), testTx("", 10))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := tracker.Remove(context.Background(), created.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if txs := tracker.Transactions(); len(txs) != 0 {
		t.Fatalf("expected empty cache, got %+v", txs)
	}
	if entries := mustList(t, NewQueue(tracker.store)); len(entries) != 0 {
		t.Fatalf("never-synced create+delete should cancel out, got %+v", entries)
	}
}

func TestUpdateOfflineCoalescesIntoQueue(t *testing.T) {
	tracker, _ := newTestTracker(t, &fakeRemote{})

	created, err := tracker.Create(context.Background(), testTx("", 10))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	created.Amount = decimal.NewFromInt(25)
	if err := tracker.Update(context.Background(), created); err != nil {
		t.Fatalf("Update: %v", err)
	}

	txs := tracker.Transactions()
	if len(txs) != 1 || !txs[0].Amount.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("cache not updated in place: %+v", txs)
	}
	entries := mustList(t, NewQueue(tracker.store))
	if len(entries) != 1 || entries[0].Operation != model.OpCreate {
		t.Fatalf("update of a pending create should stay one create entry, got %+v", entries)
	}
	if !entries[0].Transaction.Amount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("queued snapshot amount = %s, want 25", entries[0].Transaction.Amount)
	}
}

func TestPullAllLocalPrecedence(t *testing.T) {
	remote := &fakeRemote{getAllResult: []model.Transaction{testTx("1", 10)}}
	tracker, session := newTestTracker(t, remote)
	signIn(t, session)

	local := []model.Transaction{testTx("1", 99), testTx("2", 5)}
	if err := tracker.store.SetList(KeyTransactionList, local); err != nil {
		t.Fatalf("SetList: %v", err)
	}
	if err := tracker.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := tracker.PullAll(context.Background()); err != nil {
		t.Fatalf("PullAll: %v", err)
	}

	merged := tracker.Transactions()
	if len(merged) != 2 {
		t.Fatalf("merged length = %d, want 2", len(merged))
	}
	if merged[0].ID != "1" || !merged[0].Amount.Equal(decimal.NewFromInt(99)) {
		t.Errorf("local edit should win on overlap, got %+v", merged[0])
	}
	if merged[1].ID != "2" || !merged[1].Amount.Equal(decimal.NewFromInt(5)) {
		t.Errorf("local-only transaction should be preserved, got %+v", merged[1])
	}

	persisted := []model.Transaction{}
	if err := tracker.store.GetList(KeyTransactionList, &persisted); err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(persisted) != 2 {
		t.Fatalf("merge result not persisted, got %d items", len(persisted))
	}
}

func TestPullAllRequiresAuth(t *testing.T) {
	tracker, _ := newTestTracker(t, &fakeRemote{})
	if err := tracker.PullAll(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("PullAll = %v, want ErrNotAuthenticated", err)
	}
}

func TestSyncToCloudFlushesAndClears(t *testing.T) {
	remote := &fakeRemote{}
	tracker, session := newTestTracker(t, remote)

	// Queue offline, then sign in and sync.
	if _, err := tracker.Create(context.Background(), testTx("", 1)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := tracker.Create(context.Background(), testTx("", 2)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	signIn(t, session)

	if err := tracker.SyncToCloud(context.Background()); err != nil {
		t.Fatalf("SyncToCloud: %v", err)
	}

	if len(remote.bulkCreateCalls) != 1 || len(remote.bulkCreateCalls[0]) != 2 {
		t.Fatalf("expected one bulk create with 2 items, got %+v", remote.bulkCreateCalls)
	}
	if n, _ := tracker.PendingCount(); n != 0 {
		t.Fatalf("pending count = %d, want 0", n)
	}
}

func TestSyncToCloudRetainsFailedBatchOnly(t *testing.T) {
	remote := &fakeRemote{bulkUpdateErr: errors.New("boom")}
	tracker, session := newTestTracker(t, remote)

	created, _ := tracker.Create(context.Background(), testTx("", 1))

	// A pending update for a transaction the server already knows about.
	known := testTx("known", 7)
	if err := tracker.Update(context.Background(), known); err != nil {
		t.Fatalf("Update: %v", err)
	}

	signIn(t, session)

	err := tracker.SyncToCloud(context.Background())
	if err == nil {
		t.Fatal("expected an error from the failed update batch")
	}

	if len(remote.bulkCreateCalls) != 1 || len(remote.bulkUpdateCalls) != 1 {
		t.Fatalf("both batches should be attempted, got creates=%d updates=%d",
			len(remote.bulkCreateCalls), len(remote.bulkUpdateCalls))
	}

	entries := mustList(t, NewQueue(tracker.store))
	if len(entries) != 1 {
		t.Fatalf("expected only the failed update entry to remain, got %+v", entries)
	}
	if entries[0].Operation != model.OpUpdate || entries[0].Transaction.ID != "known" {
		t.Fatalf("retained entry = %+v, want update for %q", entries[0], "known")
	}
	if entries[0].Transaction.ID == created.ID {
		t.Fatal("succeeded create entry should have been removed")
	}
}

func TestSyncToCloudRequiresAuth(t *testing.T) {
	tracker, _ := newTestTracker(t, &fakeRemote{})
	if err := tracker.SyncToCloud(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("SyncToCloud = %v, want ErrNotAuthenticated", err)
	}
}
