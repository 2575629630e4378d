// Package game constructs and validates recorded games.
//
// A Game is only ever built through CreateGame or restored through
// RestoreGame; both run the full consistency ruleset, so a Game value in hand
// is always internally consistent. Mutators re-run the affected rules and
// leave the game untouched on rejection.
//
// Validation checks run in a fixed order so the first violated rule is the
// one reported: duplicate participants, winner specification, unknown
// winners, storytellers, description bound, required fields.
package game
