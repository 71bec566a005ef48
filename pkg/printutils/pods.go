package printutils

import (
	"fmt"
	"os"

	v1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/cli-runtime/pkg/printers"

	"github.com/mrostecki/cluster-diagnosis/pkg/data"
)

// PrintPodStatuses prints sampled pod statuses in a kubectl-style table format
func PrintPodStatuses(noHeaders bool, statuses []data.PodStatus) {
	printer := printers.NewTablePrinter(printers.PrintOptions{NoHeaders: noHeaders})

	table := &v1.Table{
		ColumnDefinitions: []v1.TableColumnDefinition{
			{Name: "NAMESPACE", Type: "string"},
			{Name: "NAME", Type: "string"},
			{Name: "READY", Type: "string"},
			{Name: "STATUS", Type: "string"},
			{Name: "NODE", Type: "string"},
		},
	}

	for _, status := range statuses {
		table.Rows = append(table.Rows, v1.TableRow{
			Cells: []interface{}{
				status.Namespace,
				status.Name,
				status.Ready,
				status.Status,
				status.NodeName,
			},
		})
	}

	err := printer.PrintObj(table, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error printing table: %v\n", err)
		os.Exit(1)
	}
}
