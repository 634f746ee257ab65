package dynadot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns"
)

func init() {
	dns.Register("dynadot", func(log logr.Logger, settings map[string]string) (dns.Registrar, error) {
		return New(log, settings)
	})
}

const (
	// DefaultBaseURL is the Dynadot api3 JSON endpoint.
	DefaultBaseURL = "https://api.dynadot.com/api3.json"

	defaultTimeout = 30 * time.Second
	redacted       = "***"
)

// Provider implements dns.Registrar for the Dynadot api3 API.
type Provider struct {
	baseURL string
	apiKey  string
	logURLs bool
	client  *http.Client
	log     logr.Logger
}

// New creates a Dynadot registrar from the given settings map.
// Required settings: api_key.
// Optional settings: base_url (default DefaultBaseURL), timeout (default 30s),
// log_urls (default false).
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	apiKey := settings["api_key"]
	if apiKey == "" {
		return nil, fmt.Errorf("dynadot: missing required setting 'api_key'")
	}

	baseURL := settings["base_url"]
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("dynadot: invalid base_url %q: %w", baseURL, err)
	}

	timeout := defaultTimeout
	if v := settings["timeout"]; v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("dynadot: invalid timeout %q: %w", v, err)
		}
		timeout = parsed
	}

	logURLs := false
	if v := settings["log_urls"]; v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("dynadot: invalid log_urls %q: %w", v, err)
		}
		logURLs = parsed
	}

	return &Provider{
		baseURL: baseURL,
		apiKey:  apiKey,
		logURLs: logURLs,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

// Name returns the registry name of the registrar.
func (p *Provider) Name() string { return "dynadot" }

// buildURL returns the request URL for a command and a copy of it with the
// API key redacted, suitable for logging.
func (p *Provider) buildURL(command string, params url.Values) (string, string, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return "", "", fmt.Errorf("dynadot: parse base url: %w", err)
	}

	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("command", command)

	q.Set("key", redacted)
	u.RawQuery = q.Encode()
	safe := u.String()

	q.Set("key", p.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), safe, nil
}

// doRequest builds and executes a GET request against the api3 endpoint.
func (p *Provider) doRequest(ctx context.Context, command string, params url.Values) (*http.Response, error) {
	reqURL, safeURL, err := p.buildURL(command, params)
	if err != nil {
		return nil, err
	}
	if p.logURLs {
		p.log.Info("calling registrar", "url", safeURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dynadot: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		// Do errors carry the full URL, key included.
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = safeURL
		}
		return nil, fmt.Errorf("dynadot: %s: %w", command, err)
	}
	return resp, nil
}

func statusOK(code int) bool {
	return code >= 200 && code < 300
}

// FetchRecords reads the records currently published for domain. Records that
// are exact duplicates of an earlier one are dropped.
func (p *Provider) FetchRecords(ctx context.Context, domain string) (dns.RecordSet, error) {
	records, err := p.fetch(ctx, domain)
	if err != nil {
		return dns.RecordSet{}, &dns.FetchError{Domain: domain, Err: err}
	}
	return records, nil
}

func (p *Provider) fetch(ctx context.Context, domain string) (dns.RecordSet, error) {
	resp, err := p.doRequest(ctx, "get_dns", url.Values{"domain": {domain}})
	if err != nil {
		return dns.RecordSet{}, err
	}
	defer resp.Body.Close()

	if !statusOK(resp.StatusCode) {
		return dns.RecordSet{}, fmt.Errorf("dynadot: get_dns returned status %d: %w", resp.StatusCode, dns.ErrUnexpectedStatus)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dns.RecordSet{}, fmt.Errorf("dynadot: read get_dns response: %w", err)
	}

	ns, source, err := extractNameServerSettings(body)
	if err != nil {
		return dns.RecordSet{}, err
	}
	if source == "" {
		p.log.V(1).Info("no name server settings in response, assuming no records", "domain", domain)
	} else {
		p.log.V(1).Info("read name server settings", "domain", domain, "envelope", source,
			"main", len(ns.MainDomains), "sub", len(ns.SubDomains))
	}

	return dns.RecordSet{
		Apex:       dedupe(ns.MainDomains),
		Subdomains: dedupe(ns.SubDomains),
	}, nil
}

// dedupe converts wire records, keeping the first occurrence of each
// identical (host, type, value) triple.
func dedupe(in []wireRecord) []dns.Record {
	seen := make(map[dns.Record]struct{}, len(in))
	out := make([]dns.Record, 0, len(in))
	for _, w := range in {
		r := w.record()
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// PushRecords replaces every record of domain with records and returns the
// raw registrar response.
func (p *Provider) PushRecords(ctx context.Context, domain string, records dns.RecordSet) (string, error) {
	resp, err := p.doRequest(ctx, "set_dns2", pushParams(domain, records))
	if err != nil {
		return "", &dns.PushError{Domain: domain, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &dns.PushError{Domain: domain, Err: fmt.Errorf("dynadot: read set_dns2 response: %w", err)}
	}

	if !statusOK(resp.StatusCode) {
		return "", &dns.PushError{
			Domain: domain,
			Err:    fmt.Errorf("dynadot: set_dns2 returned status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), dns.ErrUnexpectedStatus),
		}
	}

	p.log.V(1).Info("records pushed", "domain", domain, "main", len(records.Apex), "sub", len(records.Subdomains))
	return string(body), nil
}

// pushParams encodes a record set positionally. Types are lowercase on the wire.
func pushParams(domain string, records dns.RecordSet) url.Values {
	v := url.Values{}
	v.Set("domain", domain)
	for i, r := range records.Apex {
		v.Set(fmt.Sprintf("main_record_type%d", i), strings.ToLower(r.Type))
		v.Set(fmt.Sprintf("main_record%d", i), r.Value)
	}
	for j, r := range records.Subdomains {
		v.Set(fmt.Sprintf("subdomain%d", j), r.Host)
		v.Set(fmt.Sprintf("sub_record_type%d", j), strings.ToLower(r.Type))
		v.Set(fmt.Sprintf("sub_record%d", j), r.Value)
	}
	return v
}
