// Package i18n resolves the language used for user-facing messages.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// supported lists the locales the archive can render messages in.
// en-US is the base locale and must stay first so it wins ambiguous matches.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.Portuguese,
}

var matcher = language.NewMatcher(supported)

// DefaultTag returns the base language tag.
func DefaultTag() language.Tag {
	return supported[0]
}

// SupportedTags returns the list of supported language tags.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// ParseTag parses a single tag value and reports whether it is supported.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultTag(), false
	}
	return supported[index], true
}

// MatchTags picks the best supported tag for an ordered preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[index]
}

// ResolveAcceptLanguage picks the best supported tag for an Accept-Language header.
func ResolveAcceptLanguage(header string) language.Tag {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultTag()
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return DefaultTag()
	}
	return MatchTags(tags)
}
