package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrostecki/cluster-diagnosis/pkg/logutil"
	"github.com/mrostecki/cluster-diagnosis/pkg/printutils"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List cluster nodes and their readiness",
	Run: func(cmd *cobra.Command, args []string) {
		noHeaders, _ := cmd.Flags().GetBool("no-headers")

		log := logutil.Default()

		source, err := newStatusSource()
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		nodes, err := source.Nodes(context.Background())
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		printutils.PrintNodes(noHeaders, nodes)
	},
}

func init() {
	nodesCmd.Flags().Bool("no-headers", false, "Don't print headers")

	rootCmd.AddCommand(nodesCmd)
}
