package respond

import "regexp"

var sanitizePatterns = []*regexp.Regexp{
	// API keys.
	regexp.MustCompile(`sk-ant-[A-Za-z0-9\-_]+`),
	regexp.MustCompile(`sk-[A-Za-z0-9\-_]{20,}`),
	// Bearer tokens.
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]+=*`),
	// Passwords embedded in connection strings.
	regexp.MustCompile(`(?i)(password|passwd|pwd)=[^\s&;]+`),
	regexp.MustCompile(`://[^:/\s]+:[^@/\s]+@`),
}

// Sanitize masks credentials and secrets that may appear in error
// messages before they are written to logs.
func Sanitize(s string) string {
	for _, p := range sanitizePatterns {
		s = p.ReplaceAllString(s, "[REDACTED]")
	}
	return s
}
