// Package repository implements data access over MySQL for the
// flight-booking domain. Each entity gets its own repository type with
// sentinel errors so handlers can map failures to HTTP statuses
// without inspecting SQL error strings.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when a write cannot proceed because of
// dependent state, such as deleting an airport that routes still
// reference or shrinking an airplane below its sold seats. Handlers
// translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062), raised when a UNIQUE KEY rejects an insert or update.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
