package logger

import "strings"

// RedactEmail masks the local part of an address for logs.
// "john.doe@example.com" becomes "jo***@example.com".
func RedactEmail(email string) string {
	name, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return "***@***"
	}
	if len(name) > 2 {
		return name[:2] + "***@" + domain
	}
	return "***@" + domain
}
