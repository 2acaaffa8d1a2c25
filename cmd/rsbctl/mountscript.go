package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
	"github.com/Chapsvision-dev/rsbctl/internal/mount"
	"github.com/Chapsvision-dev/rsbctl/internal/output"
)

func newMountScriptCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount-script",
		Short: "Download or disable item-level recovery mount scripts",
	}
	cmd.AddCommand(newMountScriptGetCmd(g), newMountScriptDisableCmd(g))
	return cmd
}

func newMountScriptGetCmd(g *globalOptions) *cobra.Command {
	var whatIf bool
	cmd := &cobra.Command{
		Use:   "get <recovery-point-id> [path]",
		Short: "Provision file-level access to a recovery point and download its mount script",
		Long: `Provision file-level access to a recovery point and download its mount script.

The script is written to [path], RSB_DOWNLOAD_DIR, or the current directory.
Run it on the target machine with the password that is printed.`,
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			path := cfg.DownloadDir
			if len(args) > 1 && args[1] != "" {
				path = args[1]
			}
			client, err := newBackupClient(cfg)
			if err != nil {
				return err
			}

			res, err := mount.GetScript(cmd.Context(), client, mount.GetOptions{
				RecoveryPointID: args[0],
				Path:            path,
				WhatIf:          whatIf,
			})
			if err != nil {
				return err
			}
			if res.Skipped {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "What if: Performing %q on target %q.\n", "Get mount script", res.Target.ItemName)
				return nil
			}
			a := res.Access
			return output.Write(cmd.OutOrStdout(), cfg.Output, a, output.Table{
				Header: []string{"Item", "OS", "File", "Password", "Size"},
				Rows:   [][]string{{a.ItemName, a.OSType, a.FilePath, a.Password, strconv.FormatInt(a.Size, 10)}},
			})
		},
	}
	cmd.Flags().BoolVar(&whatIf, "what-if", false, "show what would happen without provisioning access")
	return cmd
}

func newMountScriptDisableCmd(g *globalOptions) *cobra.Command {
	var whatIf, passThru bool
	cmd := &cobra.Command{
		Use:   "disable <recovery-point-id>",
		Short: "Revoke file-level access to a recovery point",
		Args:  rangeArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			client, err := newBackupClient(cfg)
			if err != nil {
				return err
			}

			res, err := mount.Disable(cmd.Context(), client, mount.DisableOptions{
				RecoveryPointID: args[0],
				WhatIf:          whatIf,
			})
			if err != nil {
				return err
			}
			if res.Skipped {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "What if: Performing %q on target %q.\n", "Disable mount script", res.Target.ItemName)
				return nil
			}
			if !passThru {
				return nil
			}
			return output.Write(cmd.OutOrStdout(), cfg.Output, res.Target, recoveryPointTable(res.Target))
		},
	}
	cmd.Flags().BoolVar(&whatIf, "what-if", false, "show what would happen without revoking access")
	cmd.Flags().BoolVar(&passThru, "passthru", false, "print the recovery point after access is revoked")
	return cmd
}

func recoveryPointTable(rp backup.RecoveryPoint) output.Table {
	when := ""
	if !rp.RecoveryPointTime.IsZero() {
		when = rp.RecoveryPointTime.Format(time.RFC3339)
	}
	return output.Table{
		Header: []string{"Item", "Workload", "Management", "Recovery Point", "Time"},
		Rows: [][]string{{
			rp.ItemName, string(rp.WorkloadType), string(rp.ManagementType), rp.ID.Name, when,
		}},
	}
}

