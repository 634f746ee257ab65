package dns

import (
	"strings"
)

// NormalizeType uppercases a record type, e.g. "aaaa" → "AAAA".
func NormalizeType(recordType string) string {
	return strings.ToUpper(strings.TrimSpace(recordType))
}

// IsAddressType reports whether recordType is A or AAAA.
func IsAddressType(recordType string) bool {
	switch NormalizeType(recordType) {
	case "A", "AAAA":
		return true
	}
	return false
}

// RelativeHost strips the domain from a fully qualified host name.
// e.g. ("api.example.com", "example.com") → "api"
// e.g. ("api", "example.com") → "api"
// e.g. ("example.com", "example.com") → ""
func RelativeHost(host, domain string) string {
	host = strings.TrimSuffix(host, ".")
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return host
	}
	if strings.EqualFold(host, domain) {
		return ""
	}
	suffix := "." + domain
	if len(host) > len(suffix) && strings.EqualFold(host[len(host)-len(suffix):], suffix) {
		return host[:len(host)-len(suffix)]
	}
	return host
}
