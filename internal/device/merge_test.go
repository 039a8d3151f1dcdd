package device_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/morkath/contacts/internal/device"
	"github.com/morkath/contacts/internal/logging"
	"github.com/morkath/contacts/internal/models"
	"github.com/morkath/contacts/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupService(t *testing.T) *services.ContactService {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every pool connection would get its own empty in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE contact (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  email TEXT,
  address TEXT,
  birthday TEXT,
  notes TEXT,
  photo_path TEXT,
  is_favorite INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL DEFAULT 0,
  device_id INTEGER
);
`)
	require.NoError(t, err)

	return services.NewContactService(db, nil, nil, testLogger())
}

type fakeSource struct {
	contacts []models.DeviceContact
	err      error
}

func (f *fakeSource) Contacts(ctx context.Context) ([]models.DeviceContact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contacts, nil
}

func TestMerge_Idempotent(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Contact{Name: "Bob", PhoneNumber: "5551234567"})
	require.NoError(t, err)

	src := &fakeSource{contacts: []models.DeviceContact{
		{DisplayName: "Bob", PhoneNumber: "5551234567"},
	}}
	m := device.NewMerger(src, svc, testLogger())

	res, err := m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.MergeResult{}, res)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Bob", all[0].Name)
}

func TestMerge_AddAndUpdate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	local, err := svc.Create(ctx, models.Contact{
		Name:        "Bob",
		PhoneNumber: "5551234567",
		Email:       "bob@example.com",
	})
	require.NoError(t, err)

	src := &fakeSource{contacts: []models.DeviceContact{
		{DisplayName: "Bobby", PhoneNumber: "5551234567"},
		{DisplayName: "Carol", PhoneNumber: "7779876543"},
	}}
	m := device.NewMerger(src, svc, testLogger())

	res, err := m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.MergeResult{Added: 1, Updated: 1}, res)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	byPhone := map[string]models.Contact{}
	for _, c := range all {
		byPhone[c.PhoneNumber] = c
	}

	updated := byPhone["5551234567"]
	assert.Equal(t, "Bobby", updated.Name, "device name wins")
	assert.Equal(t, local.ID, updated.ID, "existing record keeps its id")
	assert.Equal(t, "bob@example.com", updated.Email, "only the name is reconciled")

	added := byPhone["7779876543"]
	assert.Equal(t, "Carol", added.Name)
}

func TestMerge_NormalizedPhoneIsTheKey(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Contact{Name: "Bob", PhoneNumber: "555 123-4567"})
	require.NoError(t, err)

	src := &fakeSource{contacts: []models.DeviceContact{
		{DisplayName: "Bob", PhoneNumber: "5551234567"},
	}}
	m := device.NewMerger(src, svc, testLogger())

	res, err := m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.MergeResult{}, res, "differently formatted numbers are the same contact")
}

func TestMerge_DuplicateExternalNumbersLastWins(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	src := &fakeSource{contacts: []models.DeviceContact{
		{DisplayName: "First", PhoneNumber: "5551234567"},
		{DisplayName: "Second", PhoneNumber: "555 123-4567"},
	}}
	m := device.NewMerger(src, svc, testLogger())

	res, err := m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.MergeResult{Added: 1}, res)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Second", all[0].Name)
}

func TestMerge_SourceFailureAbortsWithZeroWrites(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Contact{Name: "Bob", PhoneNumber: "5551234567"})
	require.NoError(t, err)

	m := device.NewMerger(&fakeSource{err: errors.New("device unavailable")}, svc, testLogger())

	_, err = m.Run(ctx)
	require.Error(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Bob", all[0].Name, "no writes applied after a source failure")
}
