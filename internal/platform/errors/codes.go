package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Character errors
	CodeCharacterNameEmpty   Code = "CHARACTER_NAME_EMPTY"
	CodeCharacterInvalidType Code = "CHARACTER_INVALID_TYPE"

	// Script errors
	CodeScriptNameEmpty         Code = "SCRIPT_NAME_EMPTY"
	CodeScriptEmptyCharacterSet Code = "SCRIPT_EMPTY_CHARACTER_SET"

	// Player errors
	CodePlayerNameEmpty Code = "PLAYER_NAME_EMPTY"

	// Game errors
	CodeGameDuplicateParticipant Code = "GAME_DUPLICATE_PARTICIPANT"
	CodeGameDuplicateStoryteller Code = "GAME_DUPLICATE_STORYTELLER"
	CodeGameMissingWinner        Code = "GAME_MISSING_WINNER_SPECIFICATION"
	CodeGameUnknownWinner        Code = "GAME_UNKNOWN_WINNER"
	CodeGameStorytellerMissing   Code = "GAME_STORYTELLER_MISSING"

	// Field errors
	CodeFieldTooLong         Code = "FIELD_TOO_LONG"
	CodeMissingRequiredField Code = "MISSING_REQUIRED_FIELD"

	// Storage errors
	CodeNotFound                Code = "NOT_FOUND"
	CodeAlreadyExists           Code = "ALREADY_EXISTS"
	CodeStaleData               Code = "STALE_DATA"
	CodeRelatedResourceNotFound Code = "RELATED_RESOURCE_NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeCharacterNameEmpty,
		CodeCharacterInvalidType,
		CodeScriptNameEmpty,
		CodeScriptEmptyCharacterSet,
		CodePlayerNameEmpty,
		CodeGameDuplicateParticipant,
		CodeGameDuplicateStoryteller,
		CodeGameMissingWinner,
		CodeGameUnknownWinner,
		CodeGameStorytellerMissing,
		CodeFieldTooLong,
		CodeMissingRequiredField:
		return codes.InvalidArgument

	// Aborted - optimistic lock conflicts the caller should retry with fresh data
	case CodeStaleData:
		return codes.Aborted

	// AlreadyExists - duplicate identifier on create
	case CodeAlreadyExists:
		return codes.AlreadyExists

	// FailedPrecondition - referenced entities missing at commit time
	case CodeRelatedResourceNotFound:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
