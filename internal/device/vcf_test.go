package device

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/morkath/contacts/internal/logging"
	"github.com/morkath/contacts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeVCF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device.vcf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sampleVCF = "BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"UID:1\r\n" +
	"FN:Carol\r\n" +
	"TEL:7779876543\r\n" +
	"END:VCARD\r\n" +
	"BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"UID:2\r\n" +
	"FN:Bob\r\n" +
	"TEL:555 123-4567\r\n" +
	"END:VCARD\r\n"

func TestFileSource_Contacts_SortedByName(t *testing.T) {
	f := NewFileSource(writeVCF(t, sampleVCF), testLog())

	got, err := f.Contacts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bob", got[0].DisplayName)
	assert.Equal(t, "555 123-4567", got[0].PhoneNumber)
	assert.Equal(t, "Carol", got[1].DisplayName)
}

func TestFileSource_Contacts_SkipsCardsWithoutPhone(t *testing.T) {
	content := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:NoPhone\r\nEND:VCARD\r\n" + sampleVCF
	f := NewFileSource(writeVCF(t, content), testLog())

	got, err := f.Contacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFileSource_Contacts_DeduplicatesByNormalizedPhone(t *testing.T) {
	content := sampleVCF +
		"BEGIN:VCARD\r\n" +
		"VERSION:4.0\r\n" +
		"FN:Bob Again\r\n" +
		"TEL:5551234567\r\n" +
		"END:VCARD\r\n"
	f := NewFileSource(writeVCF(t, content), testLog())

	got, err := f.Contacts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2, "first occurrence of a number wins at read time")
	assert.Equal(t, "Bob", got[0].DisplayName)
}

func TestFileSource_Contacts_MissingFileFails(t *testing.T) {
	f := NewFileSource(filepath.Join(t.TempDir(), "absent.vcf"), testLog())

	_, err := f.Contacts(context.Background())
	require.Error(t, err)
}

func TestFileSource_Add_CreatesBookAndAssignsIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.vcf")
	f := NewFileSource(path, testLog())
	ctx := context.Background()

	id1, err := f.Add(ctx, models.Contact{Name: "Bob", PhoneNumber: "5551234567", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id1)

	id2, err := f.Add(ctx, models.Contact{Name: "Carol", PhoneNumber: "7779876543"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2)

	got, err := f.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bob", got[0].DisplayName)
	assert.Equal(t, "Carol", got[1].DisplayName)
}

func TestFileSource_Update(t *testing.T) {
	f := NewFileSource(writeVCF(t, sampleVCF), testLog())
	ctx := context.Background()

	ok, err := f.Update(ctx, 2, models.Contact{Name: "Robert", PhoneNumber: "5551234567"})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := f.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Robert", got[1].DisplayName)

	// unknown device id
	ok, err = f.Update(ctx, 99, models.Contact{Name: "X", PhoneNumber: "0001112223"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileSource_Delete(t *testing.T) {
	f := NewFileSource(writeVCF(t, sampleVCF), testLog())
	ctx := context.Background()

	ok, err := f.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := f.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].DisplayName)

	ok, err = f.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
