// Package contacts persists contact records in a local SQLite database.
//
// The Repository interface is the storage contract; SQLiteRepository is the
// implementation, bound to a dbx.DBTX so it works both on a plain *sql.DB
// and inside a transaction.
package contacts
