package contacts

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/morkath/contacts/internal/dbx"
	"github.com/morkath/contacts/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const contactColumns = `id, name, phone_number, email, address, birthday, notes, photo_path, is_favorite, updated_at, device_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var (
		c                                      models.Contact
		email, address, birthday, notes, photo sql.NullString
		favorite                               int
		deviceID                               sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.Name, &c.PhoneNumber, &email, &address, &birthday,
		&notes, &photo, &favorite, &c.UpdatedAt, &deviceID)
	if err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Address = address.String
	c.Birthday = birthday.String
	c.Notes = notes.String
	c.PhotoPath = photo.String
	c.IsFavorite = favorite != 0
	c.DeviceID = deviceID.Int64
	return &c, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt64(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *SQLiteRepository) queryContacts(ctx context.Context, query string, args ...any) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select contacts: %w", err)
	}
	defer rows.Close()

	var result []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAll lists every contact ordered by name ascending.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contact ORDER BY name ASC`
	return r.queryContacts(ctx, query)
}

// GetByID returns a contact by id, or (nil, nil) when absent.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contact WHERE id = ?`
	c, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %d: %w", id, err)
	}
	return c, nil
}

// Search matches pattern as a case-sensitive substring of name, phone number,
// email or address. SQLite's LIKE is case-insensitive for ASCII, so instr()
// is used instead. An empty pattern matches everything.
func (r *SQLiteRepository) Search(ctx context.Context, pattern string) ([]models.Contact, error) {
	if pattern == "" {
		return r.GetAll(ctx)
	}
	query := `SELECT ` + contactColumns + ` FROM contact
		WHERE instr(name, ?1) > 0
			OR instr(phone_number, ?1) > 0
			OR instr(coalesce(email, ''), ?1) > 0
			OR instr(coalesce(address, ''), ?1) > 0
		ORDER BY name ASC`
	return r.queryContacts(ctx, query, pattern)
}

// Insert stores a contact. With c.ID set, an existing row with that id is
// replaced wholesale; with c.ID zero, a fresh id is assigned and returned.
func (r *SQLiteRepository) Insert(ctx context.Context, c *models.Contact) (int64, error) {
	query := `INSERT OR REPLACE INTO contact
		(id, name, phone_number, email, address, birthday, notes, photo_path, is_favorite, updated_at, device_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		nullInt64(c.ID), c.Name, c.PhoneNumber, nullString(c.Email), nullString(c.Address),
		nullString(c.Birthday), nullString(c.Notes), nullString(c.PhotoPath),
		boolToInt(c.IsFavorite), c.UpdatedAt, nullInt64(c.DeviceID))
	if err != nil {
		return 0, fmt.Errorf("failed to insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted contact id: %w", err)
	}
	return id, nil
}

// Update rewrites the row with c.ID. Returns false when the row does not exist.
func (r *SQLiteRepository) Update(ctx context.Context, c *models.Contact) (bool, error) {
	query := `UPDATE contact SET
		name = ?, phone_number = ?, email = ?, address = ?, birthday = ?,
		notes = ?, photo_path = ?, is_favorite = ?, updated_at = ?, device_id = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name, c.PhoneNumber, nullString(c.Email), nullString(c.Address), nullString(c.Birthday),
		nullString(c.Notes), nullString(c.PhotoPath), boolToInt(c.IsFavorite),
		c.UpdatedAt, nullInt64(c.DeviceID), c.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update contact %d: %w", c.ID, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra > 0, nil
}

// DeleteByIDs removes the rows with the given ids. Missing ids are skipped.
func (r *SQLiteRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contacts: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra, nil
}

// InsertBatch inserts each contact in order.
func (r *SQLiteRepository) InsertBatch(ctx context.Context, cs []models.Contact) (int, error) {
	inserted := 0
	for i := range cs {
		if _, err := r.Insert(ctx, &cs[i]); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// UpdateBatch updates each contact in order, counting rows that existed.
func (r *SQLiteRepository) UpdateBatch(ctx context.Context, cs []models.Contact) (int, error) {
	updated := 0
	for i := range cs {
		ok, err := r.Update(ctx, &cs[i])
		if err != nil {
			return updated, err
		}
		if ok {
			updated++
		}
	}
	return updated, nil
}
