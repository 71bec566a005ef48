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

// PrintEvents prints warning events in a kubectl-style table format
func PrintEvents(noHeaders bool, events []data.EventInfo) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].LastSeen.Before(events[j].LastSeen)
	})

	printer := printers.NewTablePrinter(printers.PrintOptions{NoHeaders: noHeaders})

	table := &v1.Table{
		ColumnDefinitions: []v1.TableColumnDefinition{
			{Name: "NAMESPACE", Type: "string"},
			{Name: "LAST SEEN", Type: "string"},
			{Name: "TYPE", Type: "string"},
			{Name: "REASON", Type: "string"},
			{Name: "OBJECT", Type: "string"},
			{Name: "COUNT", Type: "number"},
			{Name: "MESSAGE", Type: "string"},
		},
	}

	for _, event := range events {
		lastSeen := duration.ShortHumanDuration(time.Since(event.LastSeen))
		table.Rows = append(table.Rows, v1.TableRow{
			Cells: []interface{}{
				event.Namespace,
				lastSeen,
				event.Type,
				event.Reason,
				event.Object,
				event.Count,
				event.Message,
			},
		})
	}

	err := printer.PrintObj(table, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error printing table: %v\n", err)
		os.Exit(1)
	}
}
