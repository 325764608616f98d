package client

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"moneytrack/model"
)

// ErrNotAuthenticated is returned by operations that need a signed-in session.
var ErrNotAuthenticated = errors.New("not authenticated")

// Tracker is the entry point for UI transaction actions. Mutations apply to
// the local cache immediately; the remote call happens only when the session
// is authenticated and cloud sync is enabled, and any remote failure falls
// back to queueing. The caller never sees a remote error on a single-item
// mutation.
//
// One mutex serializes every public call. Mutations and syncs may be in
// flight concurrently relative to each other, and the queue and cache are
// read-modify-write over the store, so each call must be atomic end to end.
type Tracker struct {
	mu      sync.Mutex
	store   *Store
	queue   *Queue
	remote  RemoteAPI
	session *Session
	logger  *slog.Logger

	cache []model.Transaction
}

func NewTracker(store *Store, remote RemoteAPI, session *Session, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		store:   store,
		queue:   NewQueue(store),
		remote:  remote,
		session: session,
		logger:  logger,
	}
}

// Load hydrates the in-memory cache from the persisted store. Transactions
// that predate the expense-date field fall back to their creation date.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cached := []model.Transaction{}
	if err := t.store.GetList(KeyTransactionList, &cached); err != nil {
		return err
	}
	for i := range cached {
		if cached[i].ExpenseDate == nil {
			cached[i].ExpenseDate = cached[i].CreatedDate
		}
	}
	t.cache = cached
	return nil
}

// Transactions returns a copy of the current cache, newest first.
func (t *Tracker) Transactions() []model.Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Transaction, len(t.cache))
	copy(out, t.cache)
	return out
}

// Create assigns a fresh id, applies the transaction optimistically to the
// cache and either submits it remotely or queues a pending create.
func (t *Tracker) Create(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx.ID = uuid.NewString()
	tx.Description = strings.TrimSpace(tx.Description)
	now := time.Now()
	tx.CreatedDate = &now
	if tx.ExpenseDate == nil {
		tx.ExpenseDate = &now
	}

	t.cache = append([]model.Transaction{tx}, t.cache...)
	if err := t.store.SetList(KeyTransactionList, t.cache); err != nil {
		return model.Transaction{}, err
	}

	if t.canSync() {
		if err := t.remote.Create(ctx, tx); err != nil {
			t.logger.Warn("remote create failed, queueing", "id", tx.ID, "error", err)
			return tx, t.queue.Enqueue(tx, model.OpCreate)
		}
		return tx, nil
	}
	return tx, t.queue.Enqueue(tx, model.OpCreate)
}

// Update replaces the cached transaction with the same id and either submits
// the change remotely or queues a pending update.
func (t *Tracker) Update(ctx context.Context, tx model.Transaction) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx.Description = strings.TrimSpace(tx.Description)
	for i := range t.cache {
		if t.cache[i].ID == tx.ID {
			t.cache[i] = tx
			break
		}
	}
	if err := t.store.SetList(KeyTransactionList, t.cache); err != nil {
		return err
	}

	if t.canSync() {
		if err := t.remote.Update(ctx, tx); err != nil {
			t.logger.Warn("remote update failed, queueing", "id", tx.ID, "error", err)
			return t.queue.Enqueue(tx, model.OpUpdate)
		}
		return nil
	}
	return t.queue.Enqueue(tx, model.OpUpdate)
}

// Remove deletes the transaction from the cache and either submits the
// deletion remotely or queues a pending delete.
func (t *Tracker) Remove(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := model.Transaction{ID: id}
	kept := t.cache[:0]
	for _, tx := range t.cache {
		if tx.ID == id {
			snapshot = tx
			continue
		}
		kept = append(kept, tx)
	}
	t.cache = kept
	if err := t.store.SetList(KeyTransactionList, t.cache); err != nil {
		return err
	}

	if t.canSync() {
		if err := t.remote.Delete(ctx, id); err != nil {
			t.logger.Warn("remote delete failed, queueing", "id", id, "error", err)
			return t.queue.Enqueue(snapshot, model.OpDelete)
		}
		return nil
	}
	return t.queue.Enqueue(snapshot, model.OpDelete)
}

// PullAll fetches the remote snapshot and merges it with the local cache,
// local entries winning on overlapping ids and local-only entries appended.
// The pending queue already tracks what still has to be pushed, so a stale
// remote snapshot must not regress unsynced local edits. There is no
// timestamp or version comparison: an edit made on another device is
// overwritten by local state until it syncs and pulls again.
func (t *Tracker) PullAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	remote, err := t.remote.GetAll(ctx)
	if err != nil {
		return err
	}

	merged := make([]model.Transaction, len(remote))
	copy(merged, remote)
	index := make(map[string]int, len(merged))
	for i, tx := range merged {
		index[tx.ID] = i
	}
	for _, local := range t.cache {
		if i, ok := index[local.ID]; ok {
			merged[i] = local
		} else {
			index[local.ID] = len(merged)
			merged = append(merged, local)
		}
	}

	t.cache = merged
	return t.store.SetList(KeyTransactionList, merged)
}

func (t *Tracker) canSync() bool {
	return t.session.IsAuthenticated() && t.session.Settings().SyncToCloud
}
