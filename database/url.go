package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL joins a server URL and a database name. sslmode=disable
// is appended unless the URL already names an sslmode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, hasQuery := strings.Cut(strings.TrimRight(baseURL, "/"), "?")
	base = strings.TrimRight(base, "/")

	result := base + "/" + databaseName
	if hasQuery {
		result += "?" + query
	}

	if !strings.Contains(result, "sslmode=") {
		if hasQuery {
			result += "&sslmode=disable"
		} else {
			result += "?sslmode=disable"
		}
	}
	return result
}

// redactURL hides the password of a connection URL for logging
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
