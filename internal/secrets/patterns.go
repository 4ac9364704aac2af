package secrets

import (
	"regexp"
	"strings"
)

// Pattern defines one secret detection pattern. The first capture group,
// when present, is the candidate value checked against MinEntropy.
type Pattern struct {
	Name        string
	Regex       *regexp.Regexp
	MinEntropy  float64 // 0 disables the entropy gate
	Description string
}

// BuiltinPatterns contains the builtin detection patterns: generic
// keyword assignments plus a few well-known provider key formats.
var BuiltinPatterns = []Pattern{
	{
		Name:        "password_assignment",
		Regex:       regexp.MustCompile(`(?i)password\s*=\s*["']([^"']+)["']`),
		Description: "Hardcoded password",
	},
	{
		Name:        "api_key_assignment",
		Regex:       regexp.MustCompile(`(?i)api[_-]?key\s*=\s*["']([^"']+)["']`),
		Description: "Hardcoded API key",
	},
	{
		Name:        "secret_assignment",
		Regex:       regexp.MustCompile(`(?i)secret\s*=\s*["']([^"']+)["']`),
		Description: "Hardcoded secret",
	},
	{
		Name:        "token_assignment",
		Regex:       regexp.MustCompile(`(?i)token\s*=\s*["']([^"']+)["']`),
		Description: "Hardcoded token",
	},
	{
		Name:        "aws_access_key_id",
		Regex:       regexp.MustCompile(`(?:^|[^A-Z0-9])((?:AKIA|ABIA|ACCA|ASIA)[A-Z0-9]{16})(?:[^A-Z0-9]|$)`),
		Description: "AWS Access Key ID",
	},
	{
		Name:        "github_pat",
		Regex:       regexp.MustCompile(`(ghp_[A-Za-z0-9]{36,})`),
		Description: "GitHub Personal Access Token",
	},
	{
		Name:        "slack_token",
		Regex:       regexp.MustCompile(`(xox[bpoas]-[A-Za-z0-9-]{10,})`),
		Description: "Slack token",
	},
	{
		Name:        "private_key_block",
		Regex:       regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`),
		Description: "Private key material",
	},
	{
		Name:        "generic_high_entropy",
		Regex:       regexp.MustCompile(`(?i)(?:key|token|secret|passwd|credential)s?\s*[:=]\s*["']([A-Za-z0-9+/_=-]{24,})["']`),
		MinEntropy:  4.0,
		Description: "High-entropy credential assignment",
	},
}

// Match is one pattern hit on a line of text.
type Match struct {
	Pattern  Pattern
	Value    string // candidate secret value, may be ""
	Entropy  float64
	Redacted string
}

// ScanLine runs every builtin pattern over one line and returns the
// matches that clear their entropy gate. Placeholder values commonly
// used in examples are skipped.
func ScanLine(line string) []Match {
	var out []Match
	for _, p := range BuiltinPatterns {
		groups := p.Regex.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		value := ""
		if len(groups) > 1 {
			value = groups[1]
		}
		if isPlaceholder(value) {
			continue
		}
		entropy := ShannonEntropy(value)
		if p.MinEntropy > 0 && entropy < p.MinEntropy {
			continue
		}
		out = append(out, Match{
			Pattern:  p,
			Value:    value,
			Entropy:  entropy,
			Redacted: Redact(value),
		})
	}
	return out
}

// placeholderValues are template values that look like secrets but are not.
var placeholderValues = map[string]bool{
	"":            true,
	"changeme":    true,
	"change_me":   true,
	"placeholder": true,
	"example":     true,
	"your-key":    true,
	"xxx":         true,
	"todo":        true,
	"none":        true,
}

func isPlaceholder(value string) bool {
	if placeholderValues[strings.ToLower(value)] {
		return true
	}
	// Pure repetition ("aaaa", "0000") carries no credential signal.
	if len(value) >= 3 {
		first := value[0]
		same := true
		for i := 1; i < len(value); i++ {
			if value[i] != first {
				same = false
				break
			}
		}
		return same
	}
	return false
}

// Redact keeps the first and last two characters of a value so reports
// never echo a full credential.
func Redact(value string) string {
	if len(value) <= 6 {
		return "******"
	}
	return value[:2] + "****" + value[len(value)-2:]
}
