// Package store persists the component allocation list and personal
// access token records in SQLite. SQLiteStore satisfies token.Registry,
// so validation's registry tier can run directly against the database.
package store
