package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jwalton/gchalk"
	"github.com/spf13/cobra"

	"github.com/blocklift/blocklift/internals/mojang"
)

func init() {
	versionsCmd.Flags().Bool("force-refresh", false, "bypass the cached version index")
	versionsCmd.Flags().String("type", "release", "filter by type (release, snapshot, old_beta, old_alpha, all)")
	rootCmd.AddCommand(versionsCmd)
}

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List all installable versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		instance := newInstance()
		forceRefresh, _ := cmd.Flags().GetBool("force-refresh")
		typeFilter, _ := cmd.Flags().GetString("type")

		var spin *spinner.Spinner
		if interactive() {
			spin = spinner.New(spinner.CharSets[9], 300*time.Millisecond)
			spin.Suffix = " Fetching version index"
			spin.Start()
		}

		versions, err := instance.Mojang.FetchIndex(cmd.Context(), forceRefresh)
		if spin != nil {
			spin.Stop()
		}
		if err != nil {
			return err
		}

		for _, v := range versions {
			if typeFilter != "all" && string(v.Type) != typeFilter {
				continue
			}
			fmt.Printf(
				"%s %s %s\n",
				v.ID,
				typeBadge(v.Type),
				gchalk.Gray(v.ReleaseTime.Format("2006-01-02")),
			)
		}
		return nil
	},
}

func typeBadge(t mojang.VersionType) string {
	switch t {
	case mojang.TypeRelease:
		return gchalk.Green(string(t))
	case mojang.TypeSnapshot:
		return gchalk.Yellow(string(t))
	default:
		return gchalk.Gray(string(t))
	}
}
