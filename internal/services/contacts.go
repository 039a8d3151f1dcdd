// Package services orchestrates the storage, validation, photo and device
// layers. ContactService is the single writer-side gatekeeper: it runs the
// validation gate, stamps modification timestamps, and publishes the latest
// committed state to subscribers.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/morkath/contacts/internal/common"
	"github.com/morkath/contacts/internal/dbx"
	"github.com/morkath/contacts/internal/device"
	"github.com/morkath/contacts/internal/logging"
	"github.com/morkath/contacts/internal/models"
	"github.com/morkath/contacts/internal/photos"
	"github.com/morkath/contacts/internal/repositories/contacts"
	"github.com/morkath/contacts/internal/validation"
)

// ContactService is the policy point for all contact mutations. All writes
// pass through it; reads may be served directly or observed via Watch.
type ContactService struct {
	db       *sql.DB
	repo     contacts.Repository
	photos   *photos.Store // nil disables photo handling
	device   device.Writer // nil disables device write-back
	log      logging.Logger
	notifier *notifier

	// now is a test seam for timestamping.
	now func() time.Time
}

// NewContactService wires a service over db. photoStore and deviceWriter may
// be nil when the corresponding integration is not configured.
func NewContactService(db *sql.DB, photoStore *photos.Store, deviceWriter device.Writer, log logging.Logger) *ContactService {
	return &ContactService{
		db:       db,
		repo:     contacts.NewSQLiteRepository(db),
		photos:   photoStore,
		device:   deviceWriter,
		log:      log.With("component", "contacts"),
		notifier: newNotifier(),
		now:      time.Now,
	}
}

func (s *ContactService) nowMillis() int64 {
	return s.now().UnixMilli()
}

// notify publishes the current full list to all Watch subscribers.
func (s *ContactService) notify(ctx context.Context) {
	// the write has already committed; a cancelled caller must not suppress
	// delivery to subscribers
	ctx = context.WithoutCancel(ctx)

	snapshot, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to load snapshot for subscribers", "error", err)
		return
	}
	s.notifier.publish(snapshot)
}

// List returns every contact ordered by name ascending.
func (s *ContactService) List(ctx context.Context) ([]models.Contact, error) {
	return s.repo.GetAll(ctx)
}

// Get returns a contact by id, or (nil, nil) when absent.
func (s *ContactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

// Search returns contacts matching pattern as a case-sensitive substring of
// name, phone, email or address.
func (s *ContactService) Search(ctx context.Context, pattern string) ([]models.Contact, error) {
	return s.repo.Search(ctx, pattern)
}

// Create validates c, stamps its modification time and stores it. On a
// validation failure nothing is written and the returned error lists every
// failing field. The stored contact, including its assigned id, is returned.
func (s *ContactService) Create(ctx context.Context, c models.Contact) (*models.Contact, error) {
	if err := validation.Check(c); err != nil {
		return nil, err
	}

	c.UpdatedAt = s.nowMillis()
	id, err := s.repo.Insert(ctx, &c)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	c.ID = id

	s.notify(ctx)
	return &c, nil
}

// Update validates c, stamps its modification time and rewrites the stored
// row. It returns false when no row with c.ID exists. When the contact is
// linked to a device record, the device copy is refreshed best-effort.
func (s *ContactService) Update(ctx context.Context, c models.Contact) (bool, error) {
	if err := validation.Check(c); err != nil {
		return false, err
	}

	c.UpdatedAt = s.nowMillis()
	ok, err := s.repo.Update(ctx, &c)
	if err != nil {
		return false, fmt.Errorf("failed to update contact: %w", err)
	}
	if !ok {
		return false, nil
	}

	if s.device != nil && c.DeviceID != 0 {
		if _, derr := s.device.Update(ctx, c.DeviceID, c); derr != nil {
			s.log.Warn(ctx, "failed to update linked device record", "device_id", c.DeviceID, "error", derr)
		}
	}

	s.notify(ctx)
	return true, nil
}

// Delete removes a single contact.
func (s *ContactService) Delete(ctx context.Context, id int64) (int64, error) {
	return s.DeleteMany(ctx, []int64{id})
}

// DeleteMany removes the contacts with the given ids, releasing owned photo
// files and linked device records along the way. Missing ids are skipped.
// It returns the number of contacts actually deleted.
func (s *ContactService) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var doomed []models.Contact
	for _, id := range ids {
		c, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("failed to load contact %d: %w", id, err)
		}
		if c != nil {
			doomed = append(doomed, *c)
		}
	}

	n, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contacts: %w", err)
	}

	for _, c := range doomed {
		if s.photos != nil && c.PhotoPath != "" {
			if perr := s.photos.Remove(c.PhotoPath); perr != nil {
				s.log.Warn(ctx, "failed to remove contact photo", "id", c.ID, "error", perr)
			}
		}
		if s.device != nil && c.DeviceID != 0 {
			if _, derr := s.device.Delete(ctx, c.DeviceID); derr != nil {
				s.log.Warn(ctx, "failed to delete linked device record", "device_id", c.DeviceID, "error", derr)
			}
		}
	}

	if n > 0 {
		s.notify(ctx)
	}
	return n, nil
}

// ToggleFavorite flips the favorite flag of a contact and returns the
// updated record. A missing id yields common.ErrNotFound.
func (s *ContactService) ToggleFavorite(ctx context.Context, id int64) (*models.Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact %d: %w", id, err)
	}
	if c == nil {
		return nil, fmt.Errorf("contact %d: %w", id, common.ErrNotFound)
	}

	c.IsFavorite = !c.IsFavorite
	c.UpdatedAt = s.nowMillis()
	ok, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if !ok {
		// deleted between the read and the rewrite
		return nil, fmt.Errorf("contact %d: %w", id, common.ErrNotFound)
	}

	s.notify(ctx)
	return c, nil
}

// AttachPhoto copies the file at srcPath into the photo store and links it
// to the contact, releasing any previously owned photo.
func (s *ContactService) AttachPhoto(ctx context.Context, id int64, srcPath string) (*models.Contact, error) {
	if s.photos == nil {
		return nil, fmt.Errorf("photo store is not configured")
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact %d: %w", id, err)
	}
	if c == nil {
		return nil, fmt.Errorf("contact %d: %w", id, common.ErrNotFound)
	}

	newPath, err := s.photos.Import(srcPath)
	if err != nil {
		return nil, err
	}

	old := c.PhotoPath
	c.PhotoPath = newPath
	c.UpdatedAt = s.nowMillis()
	if _, err := s.repo.Update(ctx, c); err != nil {
		_ = s.photos.Remove(newPath)
		return nil, fmt.Errorf("failed to attach photo: %w", err)
	}

	if old != "" {
		if perr := s.photos.Remove(old); perr != nil {
			s.log.Warn(ctx, "failed to remove replaced photo", "id", id, "error", perr)
		}
	}

	s.notify(ctx)
	return c, nil
}

// ExportToDevice pushes a contact into the device address book and records
// the device id on the local row.
func (s *ContactService) ExportToDevice(ctx context.Context, id int64) (int64, error) {
	if s.device == nil {
		return 0, common.ErrNoDeviceSource
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to load contact %d: %w", id, err)
	}
	if c == nil {
		return 0, fmt.Errorf("contact %d: %w", id, common.ErrNotFound)
	}

	deviceID, err := s.device.Add(ctx, *c)
	if err != nil {
		return 0, fmt.Errorf("failed to add contact to device: %w", err)
	}

	c.DeviceID = deviceID
	c.UpdatedAt = s.nowMillis()
	if _, err := s.repo.Update(ctx, c); err != nil {
		return 0, fmt.Errorf("failed to record device link: %w", err)
	}

	s.notify(ctx)
	return deviceID, nil
}

// ApplyMerge stores the insert and update batches queued by a device import
// pass. Both batches run inside one transaction, are stamped with the same
// modification time, and subscribers are notified once. The form-validation
// gate does not apply here: device entries carry only a name and a number.
func (s *ContactService) ApplyMerge(ctx context.Context, adds, updates []models.Contact) (models.MergeResult, error) {
	now := s.nowMillis()
	for i := range adds {
		adds[i].UpdatedAt = now
	}
	for i := range updates {
		updates[i].UpdatedAt = now
	}

	var res models.MergeResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := contacts.NewSQLiteRepository(tx)

		added, err := repo.InsertBatch(ctx, adds)
		if err != nil {
			return err
		}
		updated, err := repo.UpdateBatch(ctx, updates)
		if err != nil {
			return err
		}

		res = models.MergeResult{Added: added, Updated: updated}
		return nil
	})
	if err != nil {
		return models.MergeResult{}, fmt.Errorf("failed to apply merge batches: %w", err)
	}

	if res.Added > 0 || res.Updated > 0 {
		s.notify(ctx)
	}
	return res, nil
}

// Watch returns a channel that carries the full contact list: the current
// state immediately, then a fresh snapshot after every committed write.
// Delivery is conflated to the latest snapshot. The subscription ends, and
// the channel closes, when ctx is cancelled.
func (s *ContactService) Watch(ctx context.Context) (<-chan []models.Contact, error) {
	// subscribe before loading the snapshot: a write committing in between
	// publishes into the channel, so the seed below can never mask it
	id, ch := s.notifier.subscribe()

	snapshot, err := s.repo.GetAll(ctx)
	if err != nil {
		s.notifier.unsubscribe(id)
		return nil, fmt.Errorf("failed to load initial snapshot: %w", err)
	}

	// a write that committed after subscribing already queued a newer
	// snapshot; only seed the channel when it is still empty
	select {
	case ch <- snapshot:
	default:
	}

	go func() {
		<-ctx.Done()
		s.notifier.unsubscribe(id)
	}()

	return ch, nil
}
