package config

import (
	"fmt"

	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns"
)

// Subdomain is one SUBDOMAIN<n> declaration as written. Empty Type and Value
// mean "A" and the current IP.
type Subdomain struct {
	Index   int
	Host    string
	Type    string
	Value   string
	Default bool // host was not configured and defaulted
}

// LoadSubdomains scans SUBDOMAIN0, SUBDOMAIN1, ... and stops at the first
// index without a host. A missing index 0 is filled in with defaultHost, so
// at least one subdomain is always declared. Indices after a gap are never
// read.
func LoadSubdomains(lookup LookupFunc, defaultHost string) []Subdomain {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	var out []Subdomain
	for i := 0; ; i++ {
		key := fmt.Sprintf("SUBDOMAIN%d", i)
		host := get(key)
		defaulted := false
		if host == "" {
			if i > 0 {
				break
			}
			host, defaulted = defaultHost, true
		}
		out = append(out, Subdomain{
			Index:   i,
			Host:    host,
			Type:    get(key + "_TYPE"),
			Value:   get(key + "_VALUE"),
			Default: defaulted,
		})
	}
	return out
}

// Record resolves the declaration against the current IP.
func (s Subdomain) Record(domain, ip string) dns.Record {
	r := dns.Record{
		Host:  dns.RelativeHost(s.Host, domain),
		Type:  dns.NormalizeType(s.Type),
		Value: s.Value,
	}
	if r.Type == "" {
		r.Type = "A"
	}
	if r.Value == "" {
		r.Value = ip
	}
	return r
}

// DeclaredRecords returns the desired subdomain records for ip. When a slot
// is declared more than once the last declaration wins and keeps the
// position of the first; such slots are returned as duplicates.
func (c *Config) DeclaredRecords(ip string) (records []dns.Record, duplicates []dns.Slot) {
	pos := make(map[dns.Slot]int, len(c.Subdomains))
	for _, s := range c.Subdomains {
		r := s.Record(c.Domain, ip)
		if i, seen := pos[r.Slot()]; seen {
			records[i] = r
			duplicates = append(duplicates, r.Slot())
			continue
		}
		pos[r.Slot()] = len(records)
		records = append(records, r)
	}
	return records, duplicates
}
