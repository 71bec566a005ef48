package printutils

import (
	"fmt"
	"os"
	"sort"
	"time"

	v1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/duration"
	"k8s.io/cli-runtime/pkg/printers"

	"github.com/mrostecki/cluster-diagnosis/pkg/data"
)

// PrintNodes prints nodes in a kubectl-style table format
func PrintNodes(noHeaders bool, nodes []data.NodeInfo) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Name < nodes[j].Name
	})

	printer := printers.NewTablePrinter(printers.PrintOptions{NoHeaders: noHeaders})

	table := &v1.Table{
		ColumnDefinitions: []v1.TableColumnDefinition{
			{Name: "NAME", Type: "string"},
			{Name: "STATUS", Type: "string"},
			{Name: "AGE", Type: "string"},
		},
	}

	for _, node := range nodes {
		humanAge := duration.ShortHumanDuration(time.Since(node.Created))
		table.Rows = append(table.Rows, v1.TableRow{
			Cells: []interface{}{
				node.Name,
				node.Status,
				humanAge,
			},
		})
	}

	err := printer.PrintObj(table, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error printing table: %v\n", err)
		os.Exit(1)
	}
}
