package dns

import "context"

// Record represents a single DNS record at the registrar.
type Record struct {
	Host  string `json:"host,omitempty" yaml:"host,omitempty"` // empty for apex records
	Type  string `json:"type" yaml:"type"`                     // "A", "AAAA", "CNAME", "MX", "TXT", ...
	Value string `json:"value" yaml:"value"`                   // IP address or target
}

// Slot returns the identity key of the record.
func (r Record) Slot() Slot {
	return Slot{Host: r.Host, Type: NormalizeType(r.Type)}
}

// Slot identifies a managed entry across runs. Type is always uppercase.
type Slot struct {
	Host string
	Type string
}

// RecordSet is the full set of records published for a domain.
type RecordSet struct {
	Apex       []Record `json:"apex" yaml:"apex"`
	Subdomains []Record `json:"subdomains" yaml:"subdomains"`
}

// Registrar is the interface that registrar clients must implement.
//
// PushRecords replaces everything the registrar holds for the domain with
// exactly the given set; records left out are deleted.
type Registrar interface {
	Name() string
	FetchRecords(ctx context.Context, domain string) (RecordSet, error)
	PushRecords(ctx context.Context, domain string, records RecordSet) (string, error)
}
