package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns/dynadot"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/publicip"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/reconcile"
)

// Environment keys.
const (
	EnvAPIKey           = "DYNADOT_API_KEY"
	EnvDomain           = "DYNADOT_UPDT_DOMAINS"
	EnvAPIURL           = "DYNADOT_API_URL"
	EnvProvider         = "DNS_PROVIDER"
	EnvDefaultSubdomain = "DEFAULT_SUBDOMAIN"
	EnvManualIP         = "MANUAL_IP"
	EnvIPLookupURL      = "IP_LOOKUP_URL"
	EnvMerge            = "MERGE_ENTRIES"
	EnvVerbose          = "LOG_VERBOSE"
	EnvLogAPIURL        = "LOG_API_URL"
	EnvTimeout          = "REQUEST_TIMEOUT"
)

const (
	DefaultProvider  = "dynadot"
	DefaultSubdomain = "www"
	DefaultTimeout   = 30 * time.Second
)

// LookupFunc returns the value of an environment-style key. os.LookupEnv
// satisfies it.
type LookupFunc func(key string) (string, bool)

// MapLookup returns a LookupFunc backed by m.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Config is the complete, immutable configuration of the updater. It is
// built once at startup; nothing reads the environment afterwards.
type Config struct {
	Provider         string
	APIKey           string
	APIURL           string
	Domain           string
	DefaultSubdomain string
	ManualIP         string
	IPLookupURL      string
	Merge            bool
	Verbose          bool
	LogAPIURL        bool
	Timeout          time.Duration
	Subdomains       []Subdomain
}

// FromEnv builds the configuration from the process environment.
func FromEnv() (*Config, error) {
	return Load(os.LookupEnv)
}

// Load builds and validates the configuration from lookup. Empty values are
// treated as unset.
func Load(lookup LookupFunc) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	var errs []error
	getBool := func(key string) bool {
		v := get(key, "")
		if v == "" {
			return false
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		}
		return b
	}

	cfg := &Config{
		Provider:         get(EnvProvider, DefaultProvider),
		APIKey:           get(EnvAPIKey, ""),
		APIURL:           get(EnvAPIURL, dynadot.DefaultBaseURL),
		Domain:           get(EnvDomain, ""),
		DefaultSubdomain: get(EnvDefaultSubdomain, DefaultSubdomain),
		ManualIP:         get(EnvManualIP, ""),
		IPLookupURL:      get(EnvIPLookupURL, publicip.DefaultLookupURL),
		Merge:            getBool(EnvMerge),
		Verbose:          getBool(EnvVerbose),
		LogAPIURL:        getBool(EnvLogAPIURL),
		Timeout:          DefaultTimeout,
	}

	if v := get(EnvTimeout, ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", EnvTimeout, v))
		}
		cfg.Timeout = d
	}

	cfg.Subdomains = LoadSubdomains(lookup, cfg.DefaultSubdomain)

	errs = append(errs, cfg.Validate())
	if agg := utilerrors.NewAggregate(errs); agg != nil {
		return nil, fmt.Errorf("invalid configuration: %w", utilerrors.Flatten(agg))
	}
	return cfg, nil
}

// Validate reports every missing or inconsistent setting.
func (c *Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvAPIKey))
	}
	if c.Domain == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvDomain))
	}
	if c.Provider == "" {
		errs = append(errs, errors.New("registrar name is empty"))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", EnvTimeout))
	}
	return utilerrors.NewAggregate(errs)
}

// Policy returns the reconciliation policy selected by MERGE_ENTRIES.
func (c *Config) Policy() reconcile.Policy {
	if c.Merge {
		return reconcile.PolicyMerge
	}
	return reconcile.PolicyRebuild
}

// RegistrarSettings returns the settings map passed to the registrar factory.
func (c *Config) RegistrarSettings() map[string]string {
	return map[string]string{
		"api_key":  c.APIKey,
		"base_url": c.APIURL,
		"timeout":  c.Timeout.String(),
		"log_urls": strconv.FormatBool(c.LogAPIURL),
	}
}
