package controller

import (
	"fmt"
	"strings"

	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/reconcile"
)

// FormatRecordSet returns a human-readable representation of a record set.
func FormatRecordSet(domain string, rs dns.RecordSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Domain %s\n", domain)

	fmt.Fprintf(&b, "  Apex:\n")
	for i, r := range rs.Apex {
		fmt.Fprintf(&b, "    [%d] %-5s %s\n", i, r.Type, r.Value)
	}

	if len(rs.Subdomains) > 0 {
		width := 0
		for _, r := range rs.Subdomains {
			width = max(width, len(r.Host))
		}
		fmt.Fprintf(&b, "  Subdomains:\n")
		for i, r := range rs.Subdomains {
			fmt.Fprintf(&b, "    [%d] %-*s %-5s %s\n", i, width, r.Host, r.Type, r.Value)
		}
	}

	return b.String()
}

// FormatDiff returns a human-readable representation of a diff.
func FormatDiff(d reconcile.Diff) string {
	if d.Empty() {
		return "No subdomain changes\n"
	}

	var b strings.Builder
	for _, r := range d.Added {
		fmt.Fprintf(&b, "+ %s %s %s\n", r.Host, r.Type, r.Value)
	}
	for _, r := range d.Removed {
		fmt.Fprintf(&b, "- %s %s %s\n", r.Host, r.Type, r.Value)
	}
	for _, c := range d.Changed {
		fmt.Fprintf(&b, "~ %s %s %s → %s\n", c.From.Host, c.From.Type, c.From.Value, c.To.Value)
	}
	return b.String()
}
