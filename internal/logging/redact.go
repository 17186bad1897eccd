// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package logging

import (
	"net/url"
	"strings"
)

// redactedQueryParams are stripped from URLs before they reach a log line.
var redactedQueryParams = []string{"api_key", "sk", "api_sig"}

// SanitizeToken masks a secret, showing only the first and last 4 characters.
// Secrets of 12 characters or fewer are fully masked.
// Example: "0123456789abcdef0123456789abcdef" -> "0123...cdef"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeURL replaces credential query parameters in rawURL with "***".
// Unparseable input is returned with everything after '?' dropped.
func SanitizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.IndexByte(rawURL, '?'); i >= 0 {
			return rawURL[:i]
		}
		return rawURL
	}

	q := u.Query()
	changed := false
	for _, key := range redactedQueryParams {
		if q.Has(key) {
			q.Set(key, "***")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
