package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  language.Tag
		ok    bool
	}{
		{name: "exact match", value: "en-US", want: language.AmericanEnglish, ok: true},
		{name: "base english", value: "en", want: language.AmericanEnglish, ok: true},
		{name: "portuguese", value: "pt-BR", want: language.Portuguese, ok: true},
		{name: "unsupported", value: "zz", want: language.AmericanEnglish, ok: false},
		{name: "empty", value: "", want: language.AmericanEnglish, ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTag(tc.value)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestResolveAcceptLanguage(t *testing.T) {
	if got := ResolveAcceptLanguage("pt-BR,pt;q=0.9,en;q=0.8"); got != language.Portuguese {
		t.Fatalf("expected portuguese, got %v", got)
	}
	if got := ResolveAcceptLanguage(""); got != DefaultTag() {
		t.Fatalf("expected default tag, got %v", got)
	}
	if got := ResolveAcceptLanguage("not a header"); got != DefaultTag() {
		t.Fatalf("expected default tag for malformed header, got %v", got)
	}
}
