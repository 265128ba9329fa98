// Package sanitize strips markup from user-supplied free text before it is
// stored. Interest messages and post/group descriptions come straight from
// request bodies and are later rendered to other users.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
