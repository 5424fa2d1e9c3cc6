package domainproof

import "regexp"

// fqdnPattern: dot-separated labels of alphanumerics and hyphens, no label
// starting or ending with a hyphen, at least two labels, alphabetic TLD.
var fqdnPattern = regexp.MustCompile(`^(?i)([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

// ValidFQDN reports whether domain is a syntactically valid fully-qualified
// domain name. Trailing root-label dots are rejected here — tenants submit
// the bare form; trailing-dot tolerance applies only when comparing
// resolver answers.
func ValidFQDN(domain string) bool {
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}
	return fqdnPattern.MatchString(domain)
}
