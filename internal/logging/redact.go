package logging

import (
	"net/url"
	"strings"
)

// secretKeyPatterns contains substrings that indicate a log attribute key
// likely carries sensitive data. Keys are matched case-insensitively.
var secretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"API_KEY",
	"PRIVATE",
}

// tokenPrefixes contains known API token prefixes that indicate sensitive
// values regardless of key name. Media-management servers issue plain hex
// API keys, so key-name matching does most of the work; these catch pasted
// third-party tokens.
var tokenPrefixes = []string{
	"ghp_",  // GitHub personal access token
	"gho_",  // GitHub OAuth token
	"sk-",   // OpenAI/Anthropic keys
	"AKIA",  // AWS access key prefix
	"xoxb-", // Slack bot token
	"xoxp-", // Slack user token
}

// ShouldMask returns true if the attribute key suggests a sensitive value.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix returns true if the value starts with a known token prefix.
// This catches cases where the key name doesn't indicate sensitivity but the
// value is clearly a token (e.g., "foo=ghp_abc123").
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// MaskURL redacts credentials embedded in URLs.
// URLs of the form user:pass@host are rewritten with the password masked.
// If the URL cannot be parsed, it is returned unchanged.
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}

	password, hasPassword := parsed.User.Password()
	if !hasPassword || password == "" {
		return rawURL
	}

	parsed.User = url.UserPassword(parsed.User.Username(), MaskValue(password))
	return parsed.String()
}
