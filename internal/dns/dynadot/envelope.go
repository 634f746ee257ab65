package dynadot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns"
)

// nameServerSettings is the part of a get_dns response that carries the records.
type nameServerSettings struct {
	MainDomains []wireRecord `json:"MainDomains"`
	SubDomains  []wireRecord `json:"SubDomains"`
}

type wireRecord struct {
	Subhost    string `json:"Subhost"`
	RecordType string `json:"RecordType"`
	Value      string `json:"Value"`
}

func (w wireRecord) record() dns.Record {
	return dns.Record{Host: w.Subhost, Type: w.RecordType, Value: w.Value}
}

// envelopePaths are the observed locations of NameServerSettings in a
// get_dns response, tried in order.
var envelopePaths = [][]string{
	{"GetDnsResponse", "GetDns", "NameServerSettings"},
	{"Response", "GetDns", "NameServerSettings"},
	{"GetDns", "NameServerSettings"},
}

// extractNameServerSettings returns the settings found at the first matching
// envelope path and that path. An empty path means no envelope matched and
// the returned settings are empty.
func extractNameServerSettings(body []byte) (*nameServerSettings, string, error) {
	var root json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, "", fmt.Errorf("dynadot: decode get_dns response: %w", err)
	}

	for _, path := range envelopePaths {
		raw, ok := lookupPath(root, path)
		if !ok {
			continue
		}
		source := strings.Join(path, ".")
		var ns nameServerSettings
		if err := json.Unmarshal(raw, &ns); err != nil {
			return nil, "", fmt.Errorf("dynadot: decode %s: %w", source, err)
		}
		return &ns, source, nil
	}
	return &nameServerSettings{}, "", nil
}

// lookupPath walks nested JSON objects. Missing keys, null values and
// non-object intermediates all count as not found.
func lookupPath(raw json.RawMessage, path []string) (json.RawMessage, bool) {
	for _, key := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, false
		}
		next, ok := obj[key]
		if !ok || isNull(next) {
			return nil, false
		}
		raw = next
	}
	return raw, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
