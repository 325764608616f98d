package client

import (
	"context"
	"errors"

	"moneytrack/model"
)

// SyncToCloud flushes the pending queue: entries are partitioned by operation
// into create/update/delete batches (each in timestamp order) and each
// non-empty batch is submitted to its bulk endpoint. Batches are independent;
// entries of a batch that succeeded are removed from the queue, entries of a
// failed batch stay queued for the next attempt and their errors are joined
// into the return value. There is no automatic retry: the caller (user
// action, settings toggle) triggers the next attempt.
func (t *Tracker) SyncToCloud(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	entries, err := t.queue.ListAll()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	var (
		creates, updates     []model.Transaction
		deletes              []string
		createIDs, updateIDs []string
	)
	for _, e := range entries {
		switch e.Operation {
		case model.OpCreate:
			creates = append(creates, e.Transaction)
			createIDs = append(createIDs, e.Transaction.ID)
		case model.OpUpdate:
			updates = append(updates, e.Transaction)
			updateIDs = append(updateIDs, e.Transaction.ID)
		case model.OpDelete:
			deletes = append(deletes, e.Transaction.ID)
		}
	}

	var synced []string
	var errs []error
	if len(creates) > 0 {
		if err := t.remote.BulkCreate(ctx, creates); err != nil {
			t.logger.Warn("bulk create failed, retaining entries", "count", len(creates), "error", err)
			errs = append(errs, err)
		} else {
			synced = append(synced, createIDs...)
		}
	}
	if len(updates) > 0 {
		if err := t.remote.BulkUpdate(ctx, updates); err != nil {
			t.logger.Warn("bulk update failed, retaining entries", "count", len(updates), "error", err)
			errs = append(errs, err)
		} else {
			synced = append(synced, updateIDs...)
		}
	}
	if len(deletes) > 0 {
		if err := t.remote.BulkDelete(ctx, deletes); err != nil {
			t.logger.Warn("bulk delete failed, retaining entries", "count", len(deletes), "error", err)
			errs = append(errs, err)
		} else {
			synced = append(synced, deletes...)
		}
	}

	if err := t.queue.Remove(synced); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PendingCount reports how many mutations are still waiting to be synced.
func (t *Tracker) PendingCount() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries, err := t.queue.ListAll()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
