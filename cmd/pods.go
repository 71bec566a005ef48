package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrostecki/cluster-diagnosis/pkg/logutil"
	"github.com/mrostecki/cluster-diagnosis/pkg/printutils"
	"github.com/mrostecki/cluster-diagnosis/pkg/sampler"
)

var podsCmd = &cobra.Command{
	Use:   "pods",
	Short: "Show the sampled status of pods matching a label selector",
	Long: `Show the merged status of pods matching a label selector, sampled over
several rounds. A pod observed in a non-Running phase in any round is
reported with that phase even if later rounds see it Running again, so
crash-looping pods don't hide behind a lucky snapshot.`,
	Example: `  # Sample the CNI pods
  cluster-diagnosis pods --selector k8s-app=cilium

  # Faster, less thorough sampling
  cluster-diagnosis pods --selector k8s-app=kube-dns --rounds 2 --interval 1s`,
	Run: func(cmd *cobra.Command, args []string) {
		selector, _ := cmd.Flags().GetString("selector")
		rounds, _ := cmd.Flags().GetInt("rounds")
		interval, _ := cmd.Flags().GetDuration("interval")
		noHeaders, _ := cmd.Flags().GetBool("no-headers")

		log := logutil.Default()

		source, err := newStatusSource()
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		s := sampler.New(source)
		s.Rounds = rounds
		s.Interval = interval

		statuses := s.SummarizedPodStatus(context.Background(), selector)
		if len(statuses) == 0 {
			log.Warningf("no pods with selector %q are running on the cluster", selector)
			return
		}

		printutils.PrintPodStatuses(noHeaders, statuses)
	},
}

func init() {
	podsCmd.Flags().StringP("selector", "l", "", "Label selector for the pods to sample")
	podsCmd.Flags().Int("rounds", sampler.DefaultRounds, "Number of sampling rounds")
	podsCmd.Flags().Duration("interval", sampler.DefaultInterval, "Delay between sampling rounds")
	podsCmd.Flags().Bool("no-headers", false, "Don't print headers")

	podsCmd.MarkFlagRequired("selector")

	rootCmd.AddCommand(podsCmd)
}
