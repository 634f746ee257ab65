// Package reconcile computes the record set to publish for a domain from the
// records currently at the registrar and the declared subdomains.
//
// Everything here is pure: no I/O, no logging, no failure modes. The caller
// decides what to log and when to push.
package reconcile

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns"
)

// Policy selects how declared subdomains are combined with existing ones.
type Policy string

const (
	// PolicyRebuild publishes exactly the declared subdomains.
	PolicyRebuild Policy = "rebuild"
	// PolicyMerge publishes the declared subdomains plus every existing
	// record they do not replace.
	PolicyMerge Policy = "merge"
)

// ParsePolicy parses a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyRebuild, PolicyMerge:
		return p, nil
	}
	return "", fmt.Errorf("unknown policy %q (want %q or %q)", s, PolicyRebuild, PolicyMerge)
}

func (p Policy) String() string { return strings.ToUpper(string(p)) }

// Result is the outcome of a reconciliation.
type Result struct {
	// Records is the complete set to push.
	Records dns.RecordSet
	// Diff compares current and declared subdomains. It does not influence Records.
	Diff Diff
	// PreviousApex is the existing apex A record that was repointed, or nil
	// when a new one was created.
	PreviousApex *dns.Record
	// Preserved counts the existing subdomain records kept by PolicyMerge.
	Preserved int
}

// Reconcile computes the record set to publish. Any policy other than
// PolicyMerge behaves as PolicyRebuild.
func Reconcile(current dns.RecordSet, declared []dns.Record, ip string, policy Policy) Result {
	var res Result
	res.Records.Apex, res.PreviousApex = NormalizeApex(current.Apex, ip)
	res.Diff = DiffSubdomains(current.Subdomains, declared)

	switch policy {
	case PolicyMerge:
		res.Records.Subdomains, res.Preserved = Merge(current.Subdomains, declared)
	default:
		res.Records.Subdomains = Rebuild(declared)
	}
	return res
}

// NormalizeApex reduces the apex to a single A record pointing at ip. The
// first existing A record (type compared case-insensitively) is repointed and
// returned as previous; all other apex records are dropped.
func NormalizeApex(apex []dns.Record, ip string) ([]dns.Record, *dns.Record) {
	for _, r := range apex {
		if dns.NormalizeType(r.Type) != "A" {
			continue
		}
		prev := r
		r.Host = ""
		r.Type = "A"
		r.Value = ip
		return []dns.Record{r}, &prev
	}
	return []dns.Record{{Type: "A", Value: ip}}, nil
}

// Rebuild returns the declared subdomains as the complete subdomain set.
func Rebuild(declared []dns.Record) []dns.Record {
	return append(make([]dns.Record, 0, len(declared)), declared...)
}

// Merge returns, in order: the declared records, every existing non-address
// record, and every existing A/AAAA record whose slot is not declared. The
// second return value counts the existing records kept.
func Merge(current, declared []dns.Record) ([]dns.Record, int) {
	managed := sets.New[dns.Slot]()
	for _, r := range declared {
		managed.Insert(r.Slot())
	}

	var other, unmanaged []dns.Record
	for _, r := range current {
		switch {
		case !dns.IsAddressType(r.Type):
			other = append(other, r)
		case !managed.Has(r.Slot()):
			unmanaged = append(unmanaged, r)
		}
	}

	out := make([]dns.Record, 0, len(declared)+len(other)+len(unmanaged))
	out = append(out, declared...)
	out = append(out, other...)
	out = append(out, unmanaged...)
	return out, len(other) + len(unmanaged)
}
