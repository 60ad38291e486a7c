// Package db implements the persistence layer for the bulletin service.
//
// Callers obtain a [Connection] from a [Manager], which decides once per
// process between two engines:
//
//  1. The embedded SQLite engine (mattn/go-sqlite3), used in production
//     when the driver can open the configured database file.
//  2. An in-process relational emulator, used in development and test
//     runs, when forced via BULLETIN_IN_MEMORY, or as a logged fallback
//     when the embedded engine cannot be initialized and the execution
//     mode permits it.
//
// Both engines accept the same literal statements with positional
// parameters, so the repositories layer is engine-agnostic. The emulator
// recognizes a fixed grammar of statement shapes (see classify), keeps
// its tables as in-memory collections with auto-increment identities,
// provides whole-state snapshot/rollback transactions, and persists its
// state to a JSON snapshot file after every successful mutation so data
// survives process restarts.
//
// Statements outside the recognized grammar do not fail; they degrade to
// empty results so administrative statements such as index creation pass
// through harmlessly.
package db
