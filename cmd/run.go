package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrostecki/cluster-diagnosis/pkg/artifact"
	"github.com/mrostecki/cluster-diagnosis/pkg/diagnose"
	"github.com/mrostecki/cluster-diagnosis/pkg/logutil"
	"github.com/mrostecki/cluster-diagnosis/pkg/sampler"
)

var runCmd = &cobra.Command{
	Use:     "run",
	Aliases: []string{"diagnose", "check"},
	Short:   "Run the diagnostic check groups against the cluster",
	Long: `Run the diagnostic check groups against the current cluster context.

The built-in suite verifies cluster access (nodes listable, at least one
Ready) and the health of each target workload: the deploying resource
exists and every pod selected by the target's label selector stays in the
Running phase across repeated status samples.

Additional targets can be supplied with a YAML suite file:

  targets:
    - name: ingress
      namespace: ingress-nginx
      selector: app.kubernetes.io/name=ingress-nginx
      resource: daemonsets

Exits non-zero if any group fails.`,
	Example: `  # Run the built-in suite
  cluster-diagnosis run

  # Verify additional workloads
  cluster-diagnosis run --suite-file ./suite.yaml

  # Store debug data of failing pods in S3
  cluster-diagnosis run --upload-bucket my-debug-bucket --upload-prefix diagnosis`,
	Run: func(cmd *cobra.Command, args []string) {
		suiteFile, _ := cmd.Flags().GetString("suite-file")
		uploadBucket, _ := cmd.Flags().GetString("upload-bucket")
		uploadPrefix, _ := cmd.Flags().GetString("upload-prefix")

		log := logutil.Default()
		ctx := context.Background()

		source, err := newStatusSource()
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		targets := diagnose.DefaultTargets()
		if suiteFile != "" {
			config, err := diagnose.LoadConfig(suiteFile)
			if err != nil {
				log.Errorf("%v", err)
				os.Exit(1)
			}
			targets = append(targets, config.Targets...)
		}

		var uploader artifact.Uploader
		if uploadBucket != "" {
			s3Uploader, err := artifact.NewS3Uploader(ctx, uploadBucket, uploadPrefix)
			if err != nil {
				log.Errorf("%v", err)
				os.Exit(1)
			}
			uploader = s3Uploader
		}

		suite := &diagnose.Suite{
			Source:   source,
			Sampler:  sampler.New(source),
			Uploader: uploader,
		}

		if !suite.Run(ctx, targets) {
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().StringP("suite-file", "f", "", "YAML file with additional workload targets to verify")
	runCmd.Flags().String("upload-bucket", "", "S3 bucket to store debug data of failing pods in")
	runCmd.Flags().String("upload-prefix", "cluster-diagnosis", "Key prefix for uploaded debug data")

	rootCmd.AddCommand(runCmd)
}
