// Package validator holds format checks applied to request fields.
package validator

import "regexp"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsEmail reports whether s has the local-part@domain.tld shape.
// No DNS or MX lookup is performed.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
