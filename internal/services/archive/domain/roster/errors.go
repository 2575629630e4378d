package roster

import apperrors "github.com/louisbranch/grimoire.space/internal/platform/errors"

var (
	// ErrCharacterNameEmpty indicates a missing character name.
	ErrCharacterNameEmpty = apperrors.New(apperrors.CodeCharacterNameEmpty, "character name is required")
	// ErrCharacterInvalidType indicates a missing or invalid character type.
	ErrCharacterInvalidType = apperrors.New(apperrors.CodeCharacterInvalidType, "character type is required")
	// ErrScriptNameEmpty indicates a missing script name.
	ErrScriptNameEmpty = apperrors.New(apperrors.CodeScriptNameEmpty, "script name is required")
	// ErrScriptEmptyCharacterSet indicates a script without any characters.
	ErrScriptEmptyCharacterSet = apperrors.New(apperrors.CodeScriptEmptyCharacterSet, "script requires at least one character")
	// ErrPlayerNameEmpty indicates a missing player name.
	ErrPlayerNameEmpty = apperrors.New(apperrors.CodePlayerNameEmpty, "player name is required")
)
