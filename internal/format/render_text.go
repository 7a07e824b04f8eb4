package format

import (
	"fmt"
	"strings"
)

// RenderText converts blocks to a friendly, ASCII-only terminal layout.
func RenderText(blocks []Block) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		switch block.Kind {
		case KindHeading:
			title := inlineText(block.Text)
			b.WriteString(strings.ToUpper(title))
			b.WriteString("\n")
			b.WriteString(strings.Repeat("=", len(title)))
			b.WriteString("\n")
		case KindSubheading:
			title := inlineText(block.Text)
			b.WriteString(title)
			b.WriteString("\n")
			b.WriteString(strings.Repeat("-", len(title)))
			b.WriteString("\n")
		case KindRule:
			b.WriteString(strings.Repeat("-", 40))
			b.WriteString("\n")
		case KindCodeBlock:
			for _, line := range strings.Split(block.Code, "\n") {
				b.WriteString("    ")
				b.WriteString(line)
				b.WriteString("\n")
			}
		case KindQuote:
			b.WriteString("  > ")
			b.WriteString(inlineText(block.Text))
			b.WriteString("\n")
		case KindList:
			renderTextList(&b, block)
		case KindTable:
			renderTextTable(&b, block)
		default:
			b.WriteString(inlineText(block.Text))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderTextList(b *strings.Builder, block Block) {
	for i, item := range block.Items {
		b.WriteString(strings.Repeat("  ", item.Depth))
		if block.Ordered {
			fmt.Fprintf(b, "%d. ", i+1)
		} else {
			b.WriteString("- ")
		}
		b.WriteString(inlineText(item.Text))
		b.WriteString("\n")
	}
}

func renderTextTable(b *strings.Builder, block Block) {
	widths := tableWidths(block)
	if block.Header != nil {
		writeTextRow(b, block.Header, widths)
		for i, w := range widths {
			if i > 0 {
				b.WriteString("-+-")
			}
			b.WriteString(strings.Repeat("-", w))
		}
		b.WriteString("\n")
	}
	for _, row := range block.Rows {
		writeTextRow(b, row, widths)
	}
}

func writeTextRow(b *strings.Builder, row []Inline, widths []int) {
	for i, cell := range row {
		if i > 0 {
			b.WriteString(" | ")
		}
		text := inlineText(cell)
		b.WriteString(text)
		if pad := widths[i] - len(text); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	b.WriteString("\n")
}

func tableWidths(block Block) []int {
	columns := len(block.Header)
	if columns == 0 && len(block.Rows) > 0 {
		columns = len(block.Rows[0])
	}
	widths := make([]int, columns)
	measure := func(row []Inline) {
		for i, cell := range row {
			if i >= columns {
				break
			}
			if l := len(inlineText(cell)); l > widths[i] {
				widths[i] = l
			}
		}
	}
	if block.Header != nil {
		measure(block.Header)
	}
	for _, row := range block.Rows {
		measure(row)
	}
	return widths
}

// inlineText renders spans with lightweight ASCII markers so emphasis and
// code survive in a plain terminal.
func inlineText(in Inline) string {
	var b strings.Builder
	for _, span := range in {
		switch span.Style {
		case SpanCode:
			b.WriteString("`")
			b.WriteString(span.Text)
			b.WriteString("`")
		case SpanLink:
			b.WriteString(span.Text)
			b.WriteString(" (")
			b.WriteString(span.Href)
			b.WriteString(")")
		default:
			b.WriteString(span.Text)
		}
	}
	return b.String()
}
