package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeCharacterNameEmpty       = "CHARACTER_NAME_EMPTY"
	CodeCharacterInvalidType     = "CHARACTER_INVALID_TYPE"
	CodeScriptNameEmpty          = "SCRIPT_NAME_EMPTY"
	CodeScriptEmptyCharacterSet  = "SCRIPT_EMPTY_CHARACTER_SET"
	CodePlayerNameEmpty          = "PLAYER_NAME_EMPTY"
	CodeGameDuplicateParticipant = "GAME_DUPLICATE_PARTICIPANT"
	CodeGameDuplicateStoryteller = "GAME_DUPLICATE_STORYTELLER"
	CodeGameMissingWinner        = "GAME_MISSING_WINNER_SPECIFICATION"
	CodeGameUnknownWinner        = "GAME_UNKNOWN_WINNER"
	CodeGameStorytellerMissing   = "GAME_STORYTELLER_MISSING"
	CodeFieldTooLong             = "FIELD_TOO_LONG"
	CodeMissingRequiredField     = "MISSING_REQUIRED_FIELD"
	CodeNotFound                 = "NOT_FOUND"
	CodeAlreadyExists            = "ALREADY_EXISTS"
	CodeStaleData                = "STALE_DATA"
	CodeRelatedResourceNotFound  = "RELATED_RESOURCE_NOT_FOUND"
)

func init() {
	RegisterCatalog("en-US", NewCatalog("en-US", map[Code]string{
		// Character errors
		CodeCharacterNameEmpty:   "Character name cannot be empty",
		CodeCharacterInvalidType: "Invalid character type specified",

		// Script errors
		CodeScriptNameEmpty:         "Script name cannot be empty",
		CodeScriptEmptyCharacterSet: "Script must contain at least one character",

		// Player errors
		CodePlayerNameEmpty: "Player name cannot be empty",

		// Game errors
		CodeGameDuplicateParticipant: "Player {{.PlayerID}} appears in more than one seat",
		CodeGameDuplicateStoryteller: "Player {{.PlayerID}} is listed as storyteller more than once",
		CodeGameMissingWinner:        "A winning alignment or an explicit winner list is required",
		CodeGameUnknownWinner:        "Winner {{.PlayerID}} did not participate in this game",
		CodeGameStorytellerMissing:   "Storyteller entries cannot be empty",

		// Field errors
		CodeFieldTooLong:         "Field {{.Field}} exceeds the maximum length of {{.Max}}",
		CodeMissingRequiredField: "Field {{.Field}} is required",

		// Storage errors
		CodeNotFound:                "The requested resource was not found",
		CodeAlreadyExists:           "A record with this identifier already exists",
		CodeStaleData:               "The record changed since it was read; retry with fresh data",
		CodeRelatedResourceNotFound: "Referenced {{.Resource}} {{.ID}} does not exist",
	}))
}
