// Package repositories implements persistence for the newsletter domain
// over the db.Connection statement interface.
//
// The repository is the only component that composes SQL text; it binds
// positional parameters and never touches table state directly, so it
// works identically against the embedded engine and the in-memory
// emulator. Saving a period is a wholesale replace: inside one
// transaction the period's entries are deleted and the full current set
// is reinserted with a running entry_order, which keeps the statement
// grammar small at the cost of rewriting unchanged rows.
package repositories
