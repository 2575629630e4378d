package roster

import (
	"errors"
	"testing"
)

func TestCreateScriptNormalizesCharacterSet(t *testing.T) {
	script, err := CreateScript(CreateScriptInput{
		Name:         "  Trouble Brewing ",
		CharacterIDs: []string{"imp", "butler", "imp", "  ", "baron"},
	}, func() (string, error) { return "script1", nil })
	if err != nil {
		t.Fatalf("create script: %v", err)
	}

	if script.Name != "Trouble Brewing" {
		t.Fatalf("expected trimmed name, got %q", script.Name)
	}
	got := script.CharacterIDs()
	want := []string{"baron", "butler", "imp"}
	if len(got) != len(want) {
		t.Fatalf("expected %d characters, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected character set %v, got %v", want, got)
		}
	}
}

func TestCreateScriptValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateScriptInput
		err   error
	}{
		{
			name:  "empty name",
			input: CreateScriptInput{Name: " ", CharacterIDs: []string{"imp"}},
			err:   ErrScriptNameEmpty,
		},
		{
			name:  "no characters",
			input: CreateScriptInput{Name: "Empty"},
			err:   ErrScriptEmptyCharacterSet,
		},
		{
			name:  "only blank characters",
			input: CreateScriptInput{Name: "Blank", CharacterIDs: []string{"", "  "}},
			err:   ErrScriptEmptyCharacterSet,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateScript(tc.input, nil)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
		})
	}
}

func TestReplaceCharactersIsAtomic(t *testing.T) {
	script, err := CreateScript(CreateScriptInput{
		Name:         "Trouble Brewing",
		CharacterIDs: []string{"imp", "butler"},
	}, nil)
	if err != nil {
		t.Fatalf("create script: %v", err)
	}

	if err := script.ReplaceCharacters([]string{" ", ""}); !errors.Is(err, ErrScriptEmptyCharacterSet) {
		t.Fatalf("expected empty character set error, got %v", err)
	}
	if !script.Permits("imp") || !script.Permits("butler") {
		t.Fatal("expected failed replacement to leave previous set untouched")
	}

	if err := script.ReplaceCharacters([]string{"baron"}); err != nil {
		t.Fatalf("replace characters: %v", err)
	}
	if script.Permits("imp") {
		t.Fatal("expected replacement to drop previous characters")
	}
	if !script.Permits("baron") {
		t.Fatal("expected replacement set to be active")
	}
}

func TestCharacterIDsReturnsCopy(t *testing.T) {
	script, err := CreateScript(CreateScriptInput{
		Name:         "Trouble Brewing",
		CharacterIDs: []string{"imp"},
	}, nil)
	if err != nil {
		t.Fatalf("create script: %v", err)
	}

	ids := script.CharacterIDs()
	ids[0] = "mutated"
	if !script.Permits("imp") {
		t.Fatal("expected caller mutation to not affect the script")
	}
}
