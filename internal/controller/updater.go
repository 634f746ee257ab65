package controller

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/config"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/reconcile"
)

// IPResolver returns the current public IP.
type IPResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Updater runs one synchronization of a domain's records with the public IP:
// resolve IP, fetch current records, reconcile, push.
type Updater struct {
	Log     logr.Logger
	DNS     dns.Registrar
	IP      IPResolver
	Config  *config.Config
	Version string

	// NewRunID generates the correlation id of a run. Defaults to uuid.NewString.
	NewRunID func() string
}

// RunResult describes a finished (or aborted) run.
type RunResult struct {
	ID       string
	IP       string
	Policy   reconcile.Policy
	Declared []dns.Record
	// FetchErr is the tolerated error from reading current records, if any.
	FetchErr error
	reconcile.Result
	Pushed   bool
	Response string
}

// Run performs a full run and pushes the reconciled record set. A failed
// fetch is logged and treated as an empty record set; IP resolution and push
// failures abort the run.
func (u *Updater) Run(ctx context.Context) (*RunResult, error) {
	return u.run(ctx, true)
}

// Plan performs a run up to reconciliation without pushing anything.
func (u *Updater) Plan(ctx context.Context) (*RunResult, error) {
	return u.run(ctx, false)
}

func (u *Updater) run(ctx context.Context, push bool) (*RunResult, error) {
	newID := u.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}
	cfg := u.Config
	res := &RunResult{ID: newID(), Policy: cfg.Policy()}
	log := u.Log.WithValues("run", res.ID)

	log.Info("starting dynadot updater", "version", u.Version, "registrar", u.DNS.Name(), "domain", cfg.Domain)

	ip, err := u.IP.Resolve(ctx)
	if err != nil {
		log.Error(err, "unable to resolve public IP")
		return res, err
	}
	res.IP = ip
	log.Info("resolved public IP", "ip", ip, "manual", cfg.ManualIP != "")

	current, err := u.DNS.FetchRecords(ctx, cfg.Domain)
	if err != nil {
		log.Error(err, "unable to fetch existing records, continuing as if there were none")
		res.FetchErr = err
		current = dns.RecordSet{}
	} else {
		log.V(1).Info("fetched existing records", "apex", len(current.Apex), "subdomains", len(current.Subdomains))
	}

	for _, s := range cfg.Subdomains {
		if s.Default {
			log.Info("SUBDOMAIN0 defaulted", "host", s.Host)
			continue
		}
		log.V(1).Info("loaded subdomain", "index", s.Index, "host", s.Host, "type", s.Type, "value", s.Value)
	}
	declared, dups := cfg.DeclaredRecords(ip)
	for _, slot := range dups {
		log.Info("subdomain declared more than once, last declaration wins", "host", slot.Host, "type", slot.Type)
	}
	res.Declared = declared

	res.Result = reconcile.Reconcile(current, declared, ip, res.Policy)
	logDiff(log, res.Diff)

	if res.PreviousApex != nil {
		log.V(1).Info("updating apex A record", "from", res.PreviousApex.Value, "to", ip)
	} else {
		log.V(1).Info("creating apex A record", "value", ip)
	}

	switch res.Policy {
	case reconcile.PolicyMerge:
		log.Info("mode MERGE, preserving existing records not declared", "preserved", res.Preserved)
	default:
		log.Info("mode REBUILD, overwriting all subdomains")
	}

	if !push {
		log.Info("plan only, nothing pushed", "apex", len(res.Records.Apex), "subdomains", len(res.Records.Subdomains))
		return res, nil
	}

	resp, err := u.DNS.PushRecords(ctx, cfg.Domain, res.Records)
	if err != nil {
		log.Error(err, "unable to push records")
		return res, err
	}
	res.Pushed = true
	res.Response = resp
	log.Info("DNS update response", "response", resp)
	return res, nil
}

func logDiff(log logr.Logger, d reconcile.Diff) {
	if d.Empty() {
		log.Info("diff: no subdomain changes")
		return
	}
	for _, r := range d.Added {
		log.Info("added", "host", r.Host, "type", r.Type, "value", r.Value)
	}
	for _, r := range d.Removed {
		log.Info("removed", "host", r.Host, "type", r.Type, "value", r.Value)
	}
	for _, c := range d.Changed {
		log.Info("changed", "host", c.From.Host, "type", c.From.Type, "from", c.From.Value, "to", c.To.Value)
	}
}
