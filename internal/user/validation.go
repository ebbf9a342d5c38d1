// AngelaMos | 2026
// validation.go

package user

import (
	"regexp"
	"strings"
)

// Username rules are applied in order; the first failing rule produces the
// field error. "me" is reserved for the self-profile endpoint.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type usernameRule struct {
	ok      func(string) bool
	message string
}

var usernameRules = []usernameRule{
	{
		ok:      func(v string) bool { return v != "" },
		message: "this field is required",
	},
	{
		ok:      func(v string) bool { return len(v) <= MaxUsernameLength },
		message: "must be at most 150 characters",
	},
	{
		ok:      func(v string) bool { return strings.ToLower(v) != "me" },
		message: "username \"me\" is not allowed",
	},
	{
		ok:      func(v string) bool { return usernamePattern.MatchString(v) },
		message: "may contain only letters, digits and @/./+/-/_",
	},
}

// ValidateUsername returns an empty string when the username is acceptable,
// otherwise the message for the first violated rule.
func ValidateUsername(username string) string {
	for _, rule := range usernameRules {
		if !rule.ok(username) {
			return rule.message
		}
	}
	return ""
}
