package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/config"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/controller"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/publicip"
)

// options holds the flags shared by every command.
type options struct {
	envFile  string
	verbose  bool
	merge    bool
	manualIP string
	zap      zap.Options
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "yk-dynadot-updater",
		Short: "Point a Dynadot domain at the current public IP",
		Long: "Resolves the public IP, reads the domain's current DNS records from Dynadot,\n" +
			"reconciles them with the declared subdomains and publishes the result.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := o.updater(cmd)
			if err != nil {
				return err
			}
			_, err = u.Run(cmd.Context())
			return err
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.envFile, "env-file", ".env", "dotenv file loaded before reading the environment (missing file is ignored)")
	flags.BoolVar(&o.verbose, "verbose", false, "enable debug logging (env "+config.EnvVerbose+")")
	flags.BoolVar(&o.merge, "merge", false, "keep existing records that are not declared (env "+config.EnvMerge+")")
	flags.StringVar(&o.manualIP, "manual-ip", "", "use this IP instead of looking it up (env "+config.EnvManualIP+")")

	goflags := flag.NewFlagSet("zap", flag.ContinueOnError)
	o.zap.BindFlags(goflags)
	flags.AddGoFlagSet(goflags)

	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return o.loadEnvFile()
	}

	cmd.AddCommand(newCmdPlan(o))
	cmd.AddCommand(newCmdDaemon(o))
	cmd.AddCommand(newCmdVersion())
	return cmd
}

func (o *options) loadEnvFile() error {
	if o.envFile == "" {
		return nil
	}
	if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to load env file %s: %w", o.envFile, err)
	}
	return nil
}

// config reads the environment and applies the flags that were set explicitly.
func (o *options) config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("merge") {
		cfg.Merge = o.merge
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.verbose
	}
	if flags.Changed("manual-ip") {
		cfg.ManualIP = o.manualIP
	}
	return cfg, nil
}

func (o *options) setupLogger(verbose bool) {
	if verbose && o.zap.Level == nil {
		o.zap.Level = zapcore.DebugLevel
	}
	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&o.zap)))
}

// updater wires the configured registrar and IP resolver into an Updater.
func (o *options) updater(cmd *cobra.Command) (*controller.Updater, error) {
	cfg, err := o.config(cmd)
	if err != nil {
		return nil, err
	}
	o.setupLogger(cfg.Verbose)

	log := ctrl.Log.WithName("setup")
	log.V(1).Info("loaded configuration",
		"provider", cfg.Provider,
		"domain", cfg.Domain,
		"merge", cfg.Merge,
		"subdomains", len(cfg.Subdomains),
		"timeout", cfg.Timeout,
	)

	registrar, err := dns.NewRegistrar(cfg.Provider, ctrl.Log.WithName("dns-"+cfg.Provider), cfg.RegistrarSettings())
	if err != nil {
		return nil, fmt.Errorf("unable to create DNS registrar: %w", err)
	}
	resolver := publicip.NewResolver(ctrl.Log.WithName("publicip"), cfg.IPLookupURL, cfg.ManualIP, cfg.Timeout)

	return &controller.Updater{
		Log:     ctrl.Log.WithName("updater"),
		DNS:     registrar,
		IP:      resolver,
		Config:  cfg,
		Version: Version,
	}, nil
}
