package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Chapsvision-dev/rsbctl/internal/output"
	"github.com/Chapsvision-dev/rsbctl/internal/provider"
	"github.com/Chapsvision-dev/rsbctl/internal/version"
)

type providerEntry struct {
	Workload   string `json:"workloadType"`
	Management string `json:"backupManagementType"`
	Provider   string `json:"provider"`
}

func newProvidersCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the supported workload and management type pairs",
		Args:  rangeArgs(0, 0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var entries []providerEntry
			t := output.Table{Header: []string{"Workload", "Management", "Provider"}}
			for _, k := range provider.Keys() {
				p, err := provider.Resolve(k.Workload, k.Management, nil)
				if err != nil {
					return err
				}
				e := providerEntry{Workload: string(k.Workload), Management: string(k.Management), Provider: p.Name()}
				entries = append(entries, e)
				t.Rows = append(t.Rows, []string{e.Workload, e.Management, e.Provider})
			}
			return output.Write(cmd.OutOrStdout(), g.format(), entries, t)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  rangeArgs(0, 0),
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rsbctl %s\n", version.Info())
		},
	}
}
