package contacts

import (
	"context"

	"github.com/morkath/contacts/internal/models"
)

// Repository describes CRUD and query operations for contact records.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// GetAll returns every contact ordered by name ascending.
	GetAll(ctx context.Context) ([]models.Contact, error)

	// GetByID returns a contact by id, or (nil, nil) when no such row exists.
	// Absence is not an error.
	GetByID(ctx context.Context, id int64) (*models.Contact, error)

	// Search returns contacts where pattern is a case-sensitive substring of
	// the name, phone number, email or address. An empty pattern matches
	// every contact.
	Search(ctx context.Context, pattern string) ([]models.Contact, error)

	// Insert stores a new contact and returns the assigned id. When c.ID is
	// already set and a row with that id exists, the row is replaced
	// wholesale (upsert-by-id).
	Insert(ctx context.Context, c *models.Contact) (int64, error)

	// Update rewrites the row with c.ID. It returns false when no such row
	// exists; it never creates one.
	Update(ctx context.Context, c *models.Contact) (bool, error)

	// DeleteByIDs removes the rows with the given ids and returns the number
	// actually deleted. Missing ids are silently skipped.
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)

	// InsertBatch inserts each contact in order and returns the number
	// inserted.
	InsertBatch(ctx context.Context, cs []models.Contact) (int, error)

	// UpdateBatch updates each contact in order and returns the number of
	// rows that existed and were rewritten.
	UpdateBatch(ctx context.Context, cs []models.Contact) (int, error)
}
