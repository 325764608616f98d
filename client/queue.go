package client

import (
	"sort"
	"time"

	"moneytrack/model"
)

// Queue is the pending-operation queue: a mapping from transaction id to its
// latest pending mutation, persisted as a list under KeyQueue. It records the
// desired end state per transaction, not a replayable log.
type Queue struct {
	store *Store
	now   func() int64
}

func NewQueue(store *Store) *Queue {
	return &Queue{
		store: store,
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

func (q *Queue) load() ([]model.QueueEntry, error) {
	entries := []model.QueueEntry{}
	if err := q.store.GetList(KeyQueue, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// stamp returns a timestamp strictly greater than every existing entry's, so
// ListAll has a total order even for back-to-back enqueues.
func (q *Queue) stamp(entries []model.QueueEntry) int64 {
	ts := q.now()
	for _, e := range entries {
		if e.Timestamp >= ts {
			ts = e.Timestamp + 1
		}
	}
	return ts
}

// Enqueue coalesces op against any pending entry for the same transaction id
// and persists the full queue. The transitions:
//
//	absent          + any    -> new entry for op
//	pending-create  + update -> snapshot replaced, stays create
//	pending-create  + delete -> entry removed (never reached the server)
//	pending-update  + update -> snapshot replaced, timestamp refreshed
//	pending-update  + delete -> becomes delete
//	pending-delete  + update -> no-op, delete stands
//	pending-delete  + delete -> no-op
//	pending-delete  + create -> reopened as update (the delete must not be
//	                            silently dropped, and the id already exists
//	                            remotely)
//
// A create against a pending create or update is id reuse and is treated as a
// snapshot update.
func (q *Queue) Enqueue(tx model.Transaction, op model.Operation) error {
	entries, err := q.load()
	if err != nil {
		return err
	}

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Transaction.ID] = i
	}

	i, exists := index[tx.ID]
	switch {
	case !exists:
		entries = append(entries, model.QueueEntry{
			EntryID:     "tx_" + tx.ID,
			Operation:   op,
			Transaction: tx,
			IsSynced:    false,
			Timestamp:   q.stamp(entries),
		})

	case op == model.OpDelete:
		if entries[i].Operation == model.OpCreate {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
		if entries[i].Operation == model.OpDelete {
			return nil
		}
		entries[i].Operation = model.OpDelete
		entries[i].Transaction = tx
		entries[i].Timestamp = q.stamp(entries)

	case entries[i].Operation == model.OpDelete:
		if op == model.OpUpdate {
			// Updating a record queued for deletion is a no-op.
			return nil
		}
		entries[i].Operation = model.OpUpdate
		entries[i].Transaction = tx
		entries[i].Timestamp = q.stamp(entries)

	default:
		// create+create, create+update, update+update: keep the pending
		// operation, take the newer snapshot.
		entries[i].Transaction = tx
		entries[i].Timestamp = q.stamp(entries)
	}

	return q.store.SetList(KeyQueue, entries)
}

// ListAll returns every pending entry ordered by timestamp ascending, oldest
// first, for deterministic batch submission.
func (q *Queue) ListAll() ([]model.QueueEntry, error) {
	entries, err := q.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Timestamp < entries[b].Timestamp
	})
	return entries, nil
}

// Remove drops the entries for the given transaction ids and persists.
func (q *Queue) Remove(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	entries, err := q.load()
	if err != nil {
		return err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := entries[:0]
	for _, e := range entries {
		if !drop[e.Transaction.ID] {
			kept = append(kept, e)
		}
	}
	return q.store.SetList(KeyQueue, kept)
}

// Clear empties the queue and persists.
func (q *Queue) Clear() error {
	return q.store.SetList(KeyQueue, []model.QueueEntry{})
}
