package device

import (
	"context"
	"fmt"

	"github.com/morkath/contacts/internal/logging"
	"github.com/morkath/contacts/internal/models"
)

// Store is the slice of the contact service the merge pass needs: a snapshot
// of the local book and a batch apply that stamps timestamps and notifies
// subscribers.
type Store interface {
	List(ctx context.Context) ([]models.Contact, error)
	ApplyMerge(ctx context.Context, adds, updates []models.Contact) (models.MergeResult, error)
}

// Merger reconciles the device address book into the local store. It is a
// one-shot pass invoked explicitly by the user: device contacts missing
// locally are added, local contacts whose device name changed get the new
// name, and nothing is ever deleted on either side.
//
// The pass is idempotent: running it twice with an unchanged device book
// produces zero additional writes.
type Merger struct {
	source Source
	store  Store
	log    logging.Logger
}

func NewMerger(source Source, store Store, log logging.Logger) *Merger {
	return &Merger{source: source, store: store, log: log.With("component", "merge")}
}

// Run executes one reconciliation pass and reports how many contacts were
// added and updated. A failure reading the device source aborts the pass
// before any write is applied.
func (m *Merger) Run(ctx context.Context) (models.MergeResult, error) {
	external, err := m.source.Contacts(ctx)
	if err != nil {
		return models.MergeResult{}, fmt.Errorf("failed to read device contacts: %w", err)
	}

	locals, err := m.store.List(ctx)
	if err != nil {
		return models.MergeResult{}, fmt.Errorf("failed to read local contacts: %w", err)
	}

	localByPhone := make(map[string]models.Contact, len(locals))
	for _, c := range locals {
		localByPhone[NormalizePhone(c.PhoneNumber)] = c
	}

	// When the device book itself carries the same normalized number twice,
	// the later entry wins.
	winner := make(map[string]int, len(external))
	for i, e := range external {
		winner[NormalizePhone(e.PhoneNumber)] = i
	}

	var adds, updates []models.Contact
	for i, e := range external {
		key := NormalizePhone(e.PhoneNumber)
		if winner[key] != i {
			continue
		}

		local, exists := localByPhone[key]
		if !exists {
			adds = append(adds, models.Contact{
				Name:        e.DisplayName,
				PhoneNumber: e.PhoneNumber,
			})
			continue
		}
		if local.Name != e.DisplayName {
			local.Name = e.DisplayName
			updates = append(updates, local)
		}
	}

	if len(adds) == 0 && len(updates) == 0 {
		m.log.Debug(ctx, "local contacts already up to date")
		return models.MergeResult{}, nil
	}

	res, err := m.store.ApplyMerge(ctx, adds, updates)
	if err != nil {
		return res, fmt.Errorf("failed to apply merge: %w", err)
	}

	m.log.Info(ctx, "device import finished", "added", res.Added, "updated", res.Updated)
	return res, nil
}
