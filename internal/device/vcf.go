package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/emersion/go-vcard"

	"github.com/morkath/contacts/internal/logging"
	"github.com/morkath/contacts/internal/models"
)

// FileSource reads and writes the device address book stored as a vCard
// file. It implements both Source and Writer.
//
// On read, entries sharing a normalized phone number are collapsed to the
// first occurrence in file order, matching how the device book de-duplicates
// differently formatted numbers. Device ids are carried in the numeric UID
// property of each card.
type FileSource struct {
	path string
	log  logging.Logger
}

func NewFileSource(path string, log logging.Logger) *FileSource {
	return &FileSource{path: path, log: log.With("component", "device")}
}

const fallbackName = "N/A"

func cardName(card vcard.Card) string {
	if fn := card.Get(vcard.FieldFormattedName); fn != nil && fn.Value != "" {
		return fn.Value
	}
	if n := card.Get(vcard.FieldName); n != nil && n.Value != "" {
		return n.Value
	}
	return fallbackName
}

// Contacts returns a fresh snapshot of the device book ordered by display
// name ascending. Cards without a phone number are skipped; malformed cards
// are skipped with a warning so one bad entry cannot hide the rest.
func (f *FileSource) Contacts(ctx context.Context) ([]models.DeviceContact, error) {
	in, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open device source: %w", err)
	}
	defer in.Close()

	dec := vcard.NewDecoder(in)
	seen := make(map[string]struct{})
	var result []models.DeviceContact

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			f.log.Warn(ctx, "skipping malformed device card", "error", err)
			continue
		}

		phone := card.Value(vcard.FieldTelephone)
		if phone == "" {
			continue
		}

		key := NormalizePhone(phone)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		result = append(result, models.DeviceContact{
			DisplayName: cardName(card),
			PhoneNumber: phone,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DisplayName < result[j].DisplayName
	})
	return result, nil
}

// loadCards reads every card from the file. With allowMissing, a missing
// file yields an empty book instead of an error (so the first Add creates it).
func (f *FileSource) loadCards(allowMissing bool) ([]vcard.Card, error) {
	in, err := os.Open(f.path)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open device source: %w", err)
	}
	defer in.Close()

	dec := vcard.NewDecoder(in)
	var cards []vcard.Card
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode device card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// saveCards rewrites the whole file atomically (temp file + rename).
func (f *FileSource) saveCards(cards []vcard.Card) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".device-*.vcf")
	if err != nil {
		return fmt.Errorf("failed to create temp device file: %w", err)
	}
	tmpName := tmp.Name()

	enc := vcard.NewEncoder(tmp)
	for _, card := range cards {
		vcard.ToV4(card)
		if err := enc.Encode(card); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
			return fmt.Errorf("failed to encode device card: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp device file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace device file: %w", err)
	}
	return nil
}

func cardDeviceID(card vcard.Card) (int64, bool) {
	uid := card.Value(vcard.FieldUID)
	if uid == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Add appends a card for c and returns its device id (one past the highest
// numeric UID already in the book).
func (f *FileSource) Add(ctx context.Context, c models.Contact) (int64, error) {
	cards, err := f.loadCards(true)
	if err != nil {
		return 0, err
	}

	var maxID int64
	for _, card := range cards {
		if id, ok := cardDeviceID(card); ok && id > maxID {
			maxID = id
		}
	}
	deviceID := maxID + 1

	card := make(vcard.Card)
	card.SetValue(vcard.FieldUID, strconv.FormatInt(deviceID, 10))
	card.SetValue(vcard.FieldFormattedName, c.Name)
	card.AddValue(vcard.FieldTelephone, c.PhoneNumber)
	if c.Email != "" {
		card.AddValue(vcard.FieldEmail, c.Email)
	}
	if c.Birthday != "" {
		card.SetValue(vcard.FieldBirthday, c.Birthday)
	}
	if c.Notes != "" {
		card.SetValue(vcard.FieldNote, c.Notes)
	}
	if c.Address != "" {
		card.AddAddress(&vcard.Address{StreetAddress: c.Address})
	}

	cards = append(cards, card)
	if err := f.saveCards(cards); err != nil {
		return 0, err
	}

	f.log.Debug(ctx, "added contact to device", "device_id", deviceID, "name", c.Name)
	return deviceID, nil
}

// Update rewrites the name and phone number of the card with the given
// device id.
func (f *FileSource) Update(ctx context.Context, deviceID int64, c models.Contact) (bool, error) {
	cards, err := f.loadCards(false)
	if err != nil {
		return false, err
	}

	found := false
	for _, card := range cards {
		if id, ok := cardDeviceID(card); ok && id == deviceID {
			card.SetValue(vcard.FieldFormattedName, c.Name)
			card.SetValue(vcard.FieldTelephone, c.PhoneNumber)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	if err := f.saveCards(cards); err != nil {
		return false, err
	}
	f.log.Debug(ctx, "updated contact on device", "device_id", deviceID)
	return true, nil
}

// Delete removes the card with the given device id.
func (f *FileSource) Delete(ctx context.Context, deviceID int64) (bool, error) {
	cards, err := f.loadCards(false)
	if err != nil {
		return false, err
	}

	kept := cards[:0]
	found := false
	for _, card := range cards {
		if id, ok := cardDeviceID(card); ok && id == deviceID {
			found = true
			continue
		}
		kept = append(kept, card)
	}
	if !found {
		return false, nil
	}

	if err := f.saveCards(kept); err != nil {
		return false, err
	}
	f.log.Debug(ctx, "deleted contact from device", "device_id", deviceID)
	return true, nil
}
