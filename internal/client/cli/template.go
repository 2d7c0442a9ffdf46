package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"text/template"
	"time"

	"github.com/iudanet/octosync/internal/client/remote"
	"github.com/iudanet/octosync/internal/client/sync"
)

const statusTemplate = `Remote: {{.Remote}}

{{printf "%-18s %7s  %s" "COLLECTION" "LOCAL" "LAST SYNC"}}
{{- range .Collections}}
{{printf "%-18s %7d  %s" .Name .Local (lastSync .LastSync)}}
{{- end}}
`

var statusTmpl = template.Must(template.New("status").Funcs(template.FuncMap{
	"lastSync": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.UTC().Format(time.RFC3339)
	},
}).Parse(statusTemplate))

// CollectionStatus - состояние одной коллекции для команды status
type CollectionStatus struct {
	LastSync time.Time
	Name     string
	Local    int
}

// Status - данные команды status
type Status struct {
	Remote      string
	Collections []CollectionStatus
}

// RenderStatus пишет состояние локальных коллекций
func RenderStatus(w io.Writer, status Status) error {
	return statusTmpl.Execute(w, status)
}

// RenderReport пишет таблицу результатов принудительной синхронизации
// и итоговую строку с ошибками неуспешных коллекций.
func RenderReport(w io.Writer, report *sync.Report) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "COLLECTION\tSTATUS\tRECORDS\tATTEMPTS\tELAPSED")
	for _, res := range report.Results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			res.Collection, res.Status, res.Records, res.Attempts, res.Elapsed.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	failed := report.Failed()
	var b strings.Builder
	b.WriteString("\n")
	if len(failed) == 0 {
		fmt.Fprintf(&b, "All %d collection(s) synchronized in %s\n", len(report.Results), report.Elapsed.Round(time.Millisecond))
	} else {
		fmt.Fprintf(&b, "%d of %d collection(s) failed in %s\n", len(failed), len(report.Results), report.Elapsed.Round(time.Millisecond))
		for _, res := range failed {
			fmt.Fprintf(&b, "  %s [%s]: %v\n", res.Collection, remote.KindOf(res.Err), res.Err)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
