package game

import apperrors "github.com/louisbranch/grimoire.space/internal/platform/errors"

var (
	// ErrDuplicateParticipant indicates the same player holds more than one seat.
	ErrDuplicateParticipant = apperrors.New(apperrors.CodeGameDuplicateParticipant, "player participates more than once")
	// ErrDuplicateStoryteller indicates the same player is listed as storyteller twice.
	ErrDuplicateStoryteller = apperrors.New(apperrors.CodeGameDuplicateStoryteller, "player is listed as storyteller more than once")
	// ErrMissingWinner indicates neither a winning alignment nor an explicit winner list was supplied.
	ErrMissingWinner = apperrors.New(apperrors.CodeGameMissingWinner, "winner specification is required")
	// ErrUnknownWinner indicates an explicit winner who did not participate.
	ErrUnknownWinner = apperrors.New(apperrors.CodeGameUnknownWinner, "winner did not participate in the game")
	// ErrStorytellerMissing indicates a nil entry in the storyteller list.
	ErrStorytellerMissing = apperrors.New(apperrors.CodeGameStorytellerMissing, "storyteller entries cannot be nil")
	// ErrFieldTooLong indicates a bounded text field exceeds its maximum length.
	ErrFieldTooLong = apperrors.New(apperrors.CodeFieldTooLong, "field exceeds maximum length")
	// ErrMissingRequiredField indicates a required field was absent or blank.
	ErrMissingRequiredField = apperrors.New(apperrors.CodeMissingRequiredField, "required field is missing")
)

// duplicateParticipant builds an ErrDuplicateParticipant carrying the player id.
func duplicateParticipant(playerID string) error {
	return apperrors.WithMetadata(apperrors.CodeGameDuplicateParticipant,
		"player "+playerID+" participates more than once",
		map[string]string{"PlayerID": playerID})
}

// duplicateStoryteller builds an ErrDuplicateStoryteller carrying the player id.
func duplicateStoryteller(playerID string) error {
	return apperrors.WithMetadata(apperrors.CodeGameDuplicateStoryteller,
		"player "+playerID+" is listed as storyteller more than once",
		map[string]string{"PlayerID": playerID})
}

// unknownWinner builds an ErrUnknownWinner carrying the player id.
func unknownWinner(playerID string) error {
	return apperrors.WithMetadata(apperrors.CodeGameUnknownWinner,
		"winner "+playerID+" did not participate in the game",
		map[string]string{"PlayerID": playerID})
}

// fieldTooLong builds an ErrFieldTooLong carrying the field name and bound.
func fieldTooLong(field, max string) error {
	return apperrors.WithMetadata(apperrors.CodeFieldTooLong,
		"field "+field+" exceeds the maximum length of "+max,
		map[string]string{"Field": field, "Max": max})
}

// missingField builds an ErrMissingRequiredField carrying the field name.
func missingField(field string) error {
	return apperrors.WithMetadata(apperrors.CodeMissingRequiredField,
		"field "+field+" is required",
		map[string]string{"Field": field})
}
