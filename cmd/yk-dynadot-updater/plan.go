package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/controller"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns"
	"github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/reconcile"
)

// planOutput is the YAML document printed by `plan --output yaml`.
type planOutput struct {
	Domain   string         `yaml:"domain"`
	IP       string         `yaml:"ip"`
	Policy   string         `yaml:"policy"`
	Records  dns.RecordSet  `yaml:"records"`
	Diff     reconcile.Diff `yaml:"diff"`
	FetchErr string         `yaml:"fetchError,omitempty"`
}

func newCmdPlan(o *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the records that would be published without pushing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "text" && output != "yaml" {
				return fmt.Errorf("unsupported output %q (want text or yaml)", output)
			}

			u, err := o.updater(cmd)
			if err != nil {
				return err
			}
			res, err := u.Plan(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output == "yaml" {
				out := planOutput{
					Domain:  u.Config.Domain,
					IP:      res.IP,
					Policy:  res.Policy.String(),
					Records: res.Records,
					Diff:    res.Diff,
				}
				if res.FetchErr != nil {
					out.FetchErr = res.FetchErr.Error()
				}
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("unable to encode plan: %w", err)
				}
				return enc.Close()
			}

			fmt.Fprintf(w, "Mode %s, public IP %s\n", res.Policy, res.IP)
			fmt.Fprint(w, controller.FormatDiff(res.Diff))
			fmt.Fprint(w, controller.FormatRecordSet(u.Config.Domain, res.Records))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text|yaml)")
	return cmd
}
