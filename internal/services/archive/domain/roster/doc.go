// Package roster holds the catalog value types a recorded game references:
// characters, the scripts that group them, and the players at the table.
//
// Everything here is request-local and immutable once constructed; the
// storage layer owns persistence and version bookkeeping.
package roster
