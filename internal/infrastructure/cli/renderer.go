package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/format"
)

// RenderResponse prints the explanation in the requested rendering mode.
func RenderResponse(out io.Writer, resp domain.ExplainResponse, mode string) {
	blocks := format.Format(resp.Explanation)

	switch strings.ToLower(mode) {
	case "markdown", "md":
		fmt.Fprint(out, format.RenderMarkdown(blocks))
	case "html":
		fmt.Fprint(out, format.RenderHTML(blocks))
	default:
		fmt.Fprint(out, format.RenderText(blocks))
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, footer(resp))
}

// footer summarizes provenance: level, cache state and timing.
func footer(resp domain.ExplainResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s level", resp.Level)
	if resp.FromCache {
		b.WriteString(", served from cache")
	} else if resp.ResponseTimeMS > 0 {
		fmt.Fprintf(&b, ", answered in %s", humanize.SIWithDigits(float64(resp.ResponseTimeMS)/1000.0, 1, "s"))
	}
	if resp.Attempts > 1 {
		fmt.Fprintf(&b, ", %d attempts", resp.Attempts)
	}
	if resp.TokenCount > 0 {
		fmt.Fprintf(&b, ", %d tokens", resp.TokenCount)
	}
	b.WriteString("]\n")
	return b.String()
}

// RenderRateLimited prints a friendly wait hint for throttled requests.
func RenderRateLimited(out io.Writer, wait time.Duration) {
	fmt.Fprintf(out, "Slow down: retry %s.\n", humanize.Time(time.Now().Add(wait)))
}
