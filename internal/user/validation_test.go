// AngelaMos | 2026
// validation_test.go

package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantOK   bool
	}{
		{"plain name", "capybara", true},
		{"dots and dashes", "first.last-jr", true},
		{"email-like", "user@example.com", true},
		{"underscores and digits", "user_42", true},
		{"empty", "", false},
		{"reserved me lowercase", "me", false},
		{"reserved me uppercase", "ME", false},
		{"reserved me mixed case", "Me", false},
		{"spaces", "two words", false},
		{"exclamation", "nope!", false},
		{"slash", "a/b", false},
		{"max length", strings.Repeat("a", 150), true},
		{"over max length", strings.Repeat("a", 151), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateUsername(tt.username)
			if tt.wantOK {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidateUsernameFirstRuleWins(t *testing.T) {
	// "" violates several rules; the required message must come first.
	assert.Equal(t, "this field is required", ValidateUsername(""))
}
