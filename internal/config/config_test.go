package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns/dynadot"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/publicip"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/reconcile"
)

func minimalEnv() map[string]string {
	return map[string]string{
		EnvAPIKey: "testkey",
		EnvDomain: "example.com",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(MapLookup(minimalEnv()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider != "dynadot" {
		t.Errorf("expected provider 'dynadot', got %q", cfg.Provider)
	}
	if cfg.APIURL != dynadot.DefaultBaseURL {
		t.Errorf("expected API URL %q, got %q", dynadot.DefaultBaseURL, cfg.APIURL)
	}
	if cfg.IPLookupURL != publicip.DefaultLookupURL {
		t.Errorf("expected lookup URL %q, got %q", publicip.DefaultLookupURL, cfg.IPLookupURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %s", cfg.Timeout)
	}
	if cfg.Merge || cfg.Verbose || cfg.LogAPIURL {
		t.Errorf("expected boolean flags to default to false, got %+v", cfg)
	}
	if cfg.Policy() != reconcile.PolicyRebuild {
		t.Errorf("expected rebuild policy, got %s", cfg.Policy())
	}

	want := []Subdomain{{Index: 0, Host: "www", Default: true}}
	if diff := cmp.Diff(want, cfg.Subdomains); diff != "" {
		t.Errorf("subdomains mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_AllSettings(t *testing.T) {
	env := minimalEnv()
	env[EnvAPIURL] = "http://localhost/api3.json"
	env[EnvManualIP] = "5.6.7.8"
	env[EnvIPLookupURL] = "http://localhost/ip"
	env[EnvMerge] = "true"
	env[EnvVerbose] = "true"
	env[EnvLogAPIURL] = "1"
	env[EnvTimeout] = "5s"
	env[EnvDefaultSubdomain] = "home"

	cfg, err := Load(MapLookup(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ManualIP != "5.6.7.8" {
		t.Errorf("expected manual IP 5.6.7.8, got %q", cfg.ManualIP)
	}
	if !cfg.Merge || cfg.Policy() != reconcile.PolicyMerge {
		t.Errorf("expected merge policy, got %s", cfg.Policy())
	}
	if !cfg.Verbose || !cfg.LogAPIURL {
		t.Error("expected verbose and log-api-url to be true")
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %s", cfg.Timeout)
	}
	if len(cfg.Subdomains) != 1 || cfg.Subdomains[0].Host != "home" {
		t.Errorf("expected synthesized subdomain 'home', got %+v", cfg.Subdomains)
	}

	settings := cfg.RegistrarSettings()
	wantSettings := map[string]string{
		"api_key":  "testkey",
		"base_url": "http://localhost/api3.json",
		"timeout":  "5s",
		"log_urls": "true",
	}
	if diff := cmp.Diff(wantSettings, settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyValuesAreUnset(t *testing.T) {
	env := minimalEnv()
	env[EnvProvider] = ""
	env[EnvManualIP] = ""
	env[EnvMerge] = ""

	cfg, err := Load(MapLookup(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != DefaultProvider {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
	if cfg.Merge {
		t.Error("expected empty MERGE_ENTRIES to mean false")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantKeys []string
	}{
		{"missing everything", map[string]string{}, []string{EnvAPIKey, EnvDomain}},
		{"missing domain", map[string]string{EnvAPIKey: "k"}, []string{EnvDomain}},
		{"bad boolean", map[string]string{EnvAPIKey: "k", EnvDomain: "example.com", EnvMerge: "yes please"}, []string{EnvMerge}},
		{"bad timeout", map[string]string{EnvAPIKey: "k", EnvDomain: "example.com", EnvTimeout: "later"}, []string{EnvTimeout}},
		{"negative timeout", map[string]string{EnvAPIKey: "k", EnvDomain: "example.com", EnvTimeout: "-1s"}, []string{EnvTimeout}},
		{
			"reports all problems",
			map[string]string{EnvVerbose: "nope", EnvLogAPIURL: "nah"},
			[]string{EnvAPIKey, EnvDomain, EnvVerbose, EnvLogAPIURL},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(MapLookup(tt.env))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, k := range tt.wantKeys {
				if !strings.Contains(err.Error(), k) {
					t.Errorf("expected error to mention %s, got %q", k, err)
				}
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "key-from-env")
	t.Setenv(EnvDomain, "example.org")
	t.Setenv("SUBDOMAIN0", "home")
	t.Setenv("SUBDOMAIN1", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "key-from-env" || cfg.Domain != "example.org" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.Subdomains) != 1 || cfg.Subdomains[0].Host != "home" {
		t.Errorf("expected single subdomain 'home', got %+v", cfg.Subdomains)
	}
}
