package pipeline

import (
	"strings"

	"eolgames/internal"
	"eolgames/internal/config"
)

var releaseFields = map[internal.Field]bool{
	internal.FieldFirstReleased: true,
	internal.FieldJPRelease:     true,
	internal.FieldNARelease:     true,
	internal.FieldPALRelease:    true,
}

// cleanValue turns an already normalized cell into a field value. An empty
// result means the field is absent. Titles are kept verbatim; other fields
// drop placeholder text, and release dates drop any "unreleased" marker.
func cleanValue(profile config.Profile, f internal.Field, text string) string {
	if text == "" || f == internal.FieldTitle {
		return text
	}
	if profile.IsPlaceholder(text) {
		return ""
	}
	if releaseFields[f] && strings.Contains(strings.ToLower(text), "unreleased") {
		return ""
	}
	return text
}
