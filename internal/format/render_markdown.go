package format

import (
	"fmt"
	"strings"
)

// RenderMarkdown re-emits blocks as canonical markdown for export.
func RenderMarkdown(blocks []Block) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		switch block.Kind {
		case KindHeading:
			level := block.Level
			if level < 1 || level > 3 {
				level = 2
			}
			fmt.Fprintf(&b, "%s %s\n", strings.Repeat("#", level), inlineMarkdown(block.Text))
		case KindSubheading:
			fmt.Fprintf(&b, "#### %s\n", inlineMarkdown(block.Text))
		case KindRule:
			b.WriteString("---\n")
		case KindCodeBlock:
			fmt.Fprintf(&b, "```%s\n%s\n```\n", block.Language, block.Code)
		case KindQuote:
			fmt.Fprintf(&b, "> %s\n", inlineMarkdown(block.Text))
		case KindList:
			for n, item := range block.Items {
				indent := strings.Repeat("  ", item.Depth)
				if block.Ordered {
					fmt.Fprintf(&b, "%s%d. %s\n", indent, n+1, inlineMarkdown(item.Text))
				} else {
					fmt.Fprintf(&b, "%s- %s\n", indent, inlineMarkdown(item.Text))
				}
			}
		case KindTable:
			renderMarkdownTable(&b, block)
		default:
			b.WriteString(inlineMarkdown(block.Text))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderMarkdownTable(b *strings.Builder, block Block) {
	writeRow := func(row []Inline) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = inlineMarkdown(cell)
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
	if block.Header != nil {
		writeRow(block.Header)
		seps := make([]string, len(block.Header))
		for i := range seps {
			seps[i] = "---"
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(seps, " | "))
	}
	for _, row := range block.Rows {
		writeRow(row)
	}
}

func inlineMarkdown(in Inline) string {
	var b strings.Builder
	for _, span := range in {
		switch span.Style {
		case SpanBold:
			b.WriteString("**" + span.Text + "**")
		case SpanItalic:
			b.WriteString("*" + span.Text + "*")
		case SpanCode:
			b.WriteString("`" + span.Text + "`")
		case SpanLink:
			fmt.Fprintf(&b, "[%s](%s)", span.Text, span.Href)
		default:
			b.WriteString(span.Text)
		}
	}
	return b.String()
}
