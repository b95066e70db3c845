package shell

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jeanpaul/notewise/internal/assistant"
	"github.com/jeanpaul/notewise/internal/health"
	"github.com/jeanpaul/notewise/internal/llm"
	"github.com/jeanpaul/notewise/internal/parse"
	"github.com/jeanpaul/notewise/internal/tui"
)

// PrintError writes err in the error style followed by its hint, if any.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, tui.ErrorStyle.Render("Error: "+err.Error()))
	if hint := llm.Hint(err); hint != "" {
		fmt.Fprintln(w, tui.HelpStyle.Render("  hint: "+hint))
	}
}

func PrintInsights(w io.Writer, insights []string) {
	if len(insights) == 0 {
		fmt.Fprintln(w, tui.WarnStyle.Render("The model returned no insights."))
		return
	}
	fmt.Fprintln(w, tui.TitleStyle.Render("Insights"))
	for i, in := range insights {
		fmt.Fprintf(w, "%s %s\n", tui.BulletStyle.Render(fmt.Sprintf("%2d.", i+1)), in)
	}
}

func PrintResults(w io.Writer, results []parse.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, tui.WarnStyle.Render("No matching notes."))
		return
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s\n", tui.TitleStyle.Render(r.Title), tui.PathStyle.Render(r.FilePath))
		fmt.Fprintln(w, tui.ExcerptStyle.Render(r.Excerpt))
	}
}

func PrintAdded(w io.Writer, res assistant.AddResult) {
	if res.QueryErr != nil {
		fmt.Fprintln(w, tui.WarnStyle.Render("Could not categorize the note; saved it unsorted."))
		PrintError(w, res.QueryErr)
	}
	fmt.Fprintf(w, "%s %s\n", tui.SuccessStyle.Render("Saved"), tui.PathStyle.Render(res.RelPath))
}

// PrintDiagnostics writes the client's diagnostics in key order.
func PrintDiagnostics(w io.Writer, diag map[string]string) {
	keys := make([]string, 0, len(diag))
	for k := range diag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s %s\n", tui.LabelStyle.Render(fmt.Sprintf("%-17s", k+":")), tui.ValueStyle.Render(diag[k]))
	}
}

func PrintHealth(w io.Writer, s health.Status) {
	mark := func(ok bool) string {
		if ok {
			return tui.SuccessStyle.Render("ok")
		}
		return tui.ErrorStyle.Render("fail")
	}
	fmt.Fprintf(w, "  %s %s (%s)\n", tui.LabelStyle.Render("backend: "), string(s.Kind), s.BaseURL)
	fmt.Fprintf(w, "  %s %s  %s\n", tui.LabelStyle.Render("reachable:"), mark(s.Reachable), tui.HelpStyle.Render(s.Latency.Round(time.Millisecond).String()))
	fmt.Fprintf(w, "  %s %s  %s\n", tui.LabelStyle.Render("model:    "), mark(s.ModelAvailable), s.Model)
	if len(s.Models) > 0 {
		fmt.Fprintf(w, "  %s %d installed\n", tui.LabelStyle.Render("models:   "), len(s.Models))
	}
	if s.Error != "" {
		fmt.Fprintln(w, tui.ErrorStyle.Render("  "+s.Error))
	}
	if s.Hint != "" {
		fmt.Fprintln(w, tui.HelpStyle.Render("  hint: "+s.Hint))
	}
}
