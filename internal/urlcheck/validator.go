// Package urlcheck validates URLs before they are handed to the OS opener.
package urlcheck

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const maxURLLength = 2048

// ValidationResult is a typed verdict, not an error: callers branch on
// Valid and surface Reason where the UI wants it.
type ValidationResult struct {
	Valid    bool
	Protocol string
	Host     string
	Reason   string
}

func valid(protocol, host string) ValidationResult {
	return ValidationResult{Valid: true, Protocol: protocol, Host: host}
}

func invalid(reason string) ValidationResult {
	return ValidationResult{Valid: false, Protocol: "invalid", Reason: reason}
}

type Validator struct {
	allowedProtocols map[string]bool
	blockedProtocols map[string]bool
	dangerous        []*regexp.Regexp
	domainPattern    *regexp.Regexp
}

func NewValidator() *Validator {
	return &Validator{
		allowedProtocols: map[string]bool{"http": true, "https": true},
		blockedProtocols: map[string]bool{
			"javascript": true,
			"data":       true,
			"file":       true,
			"ftp":        true,
			"vbscript":   true,
		},
		dangerous: []*regexp.Regexp{
			regexp.MustCompile(`(?i)javascript:`),
			regexp.MustCompile(`(?i)data:`),
			regexp.MustCompile(`(?i)vbscript:`),
			regexp.MustCompile(`(?i)<script`),
		},
		domainPattern: regexp.MustCompile(`^[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
	}
}

// Validate applies the rejection rules in order: length, dangerous
// patterns, parseability, blocked protocol, allowed protocol, host format.
func (v *Validator) Validate(raw string) ValidationResult {
	if len(raw) > maxURLLength {
		return invalid(fmt.Sprintf("URL too long: %d characters (max %d)", len(raw), maxURLLength))
	}

	for _, pattern := range v.dangerous {
		if pattern.MatchString(raw) {
			return invalid("URL contains dangerous patterns")
		}
	}

	parsed, err := v.parseWithProtocol(raw)
	if err != nil {
		return invalid(fmt.Sprintf("invalid URL format: %v", err))
	}

	scheme := strings.ToLower(parsed.Scheme)
	if v.blockedProtocols[scheme] {
		return invalid(fmt.Sprintf("blocked protocol: %s", scheme))
	}
	if !v.allowedProtocols[scheme] {
		return invalid(fmt.Sprintf("protocol not allowed: %s", scheme))
	}

	host := parsed.Hostname()
	if host == "" {
		return invalid("no host found in URL")
	}
	if !v.validHost(host) {
		return invalid(fmt.Sprintf("invalid host format: %s", host))
	}

	return valid(scheme, host)
}

// QuickValidate is the boolean shortcut for UI feedback.
func (v *Validator) QuickValidate(raw string) bool {
	return v.Validate(raw).Valid
}

// parseWithProtocol retries bare hosts with an https:// prefix so that
// "google.com" style input validates.
func (v *Validator) parseWithProtocol(raw string) (*url.URL, error) {
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		return parsed, nil
	}
	if !strings.Contains(raw, "://") {
		return url.Parse("https://" + raw)
	}
	return url.Parse(raw)
}

func (v *Validator) validHost(host string) bool {
	if host == "" {
		return false
	}
	// Local development hosts pass without a domain check.
	if host == "localhost" || strings.HasPrefix(host, "127.") || strings.HasPrefix(host, "192.168.") {
		return true
	}
	if !strings.Contains(host, ".") {
		return false
	}
	return v.domainPattern.MatchString(host)
}

// SuggestCorrections proposes candidate fixes for common URL mistakes.
// Suggestions are advisory hints for the UI, never re-validated here.
func (v *Validator) SuggestCorrections(raw string) []string {
	suggestions := make([]string, 0, 3)
	if raw != "" && !strings.Contains(raw, "://") {
		suggestions = append(suggestions, "https://"+raw)
	}
	if strings.HasPrefix(raw, "http://") {
		suggestions = append(suggestions, "https://"+strings.TrimPrefix(raw, "http://"))
	}
	if strings.Contains(raw, "google") && !strings.Contains(raw, "google.com") {
		suggestions = append(suggestions, strings.ReplaceAll(raw, "google", "google.com"))
	}
	return suggestions
}
