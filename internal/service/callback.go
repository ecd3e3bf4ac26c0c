package service

import (
	"net/url"
	"strings"
)

// WithQuery appends key=value to a callback URL, using & when the
// callback already carries a query string.
func WithQuery(callback, key, value string) string {
	sep := "?"
	if strings.Contains(callback, "?") {
		sep = "&"
	}
	return callback + sep + key + "=" + url.QueryEscape(value)
}
