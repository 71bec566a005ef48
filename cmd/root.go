package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"

	"github.com/mrostecki/cluster-diagnosis/pkg/k8s"
	"github.com/mrostecki/cluster-diagnosis/pkg/logutil"
)

var KubernetesConfigFlags *genericclioptions.ConfigFlags

var rootCmd = &cobra.Command{
	Use:   "cluster-diagnosis",
	Short: "Diagnose the health of components running on a Kubernetes cluster",
	Long: `cluster-diagnosis runs read-only diagnostic checks against the current
cluster context. Checks are grouped; a failing check stops its group so an
operator can fix the first broken thing before re-running.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logutil.Default().SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newStatusSource builds the client-go backed adapter from the kubeconfig
// flags; command Run functions exit on failure.
func newStatusSource() (*k8s.Client, error) {
	return k8s.NewClient(KubernetesConfigFlags)
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	KubernetesConfigFlags = genericclioptions.NewConfigFlags(true)
	KubernetesConfigFlags.AddFlags(rootCmd.PersistentFlags())
}
