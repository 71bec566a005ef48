package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrostecki/cluster-diagnosis/pkg/logutil"
	"github.com/mrostecki/cluster-diagnosis/pkg/printutils"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent warning events",
	Long: `Show the non-Normal events of a namespace (or all namespaces), the same
detail a failing check's debug bundle contains.`,
	Run: func(cmd *cobra.Command, args []string) {
		namespace, _ := cmd.Flags().GetString("namespace")
		noHeaders, _ := cmd.Flags().GetBool("no-headers")

		log := logutil.Default()

		source, err := newStatusSource()
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		events, err := source.WarningEvents(context.Background(), namespace)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		if len(events) == 0 {
			log.Infof("no warning events found")
			return
		}

		printutils.PrintEvents(noHeaders, events)
	},
}

func init() {
	eventsCmd.Flags().StringP("namespace", "n", "", "Kubernetes namespace (default: all namespaces)")
	eventsCmd.Flags().Bool("no-headers", false, "Don't print headers")

	rootCmd.AddCommand(eventsCmd)
}
