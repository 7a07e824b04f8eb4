package format

import (
	"fmt"
	"html"
	"strings"
)

// RenderHTML converts blocks to standalone HTML markup for export. Text
// content is escaped; link URLs are passed through unescaped from the source
// text, an accepted limitation documented on Span.
func RenderHTML(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Kind {
		case KindHeading:
			level := block.Level
			if level < 1 || level > 3 {
				level = 2
			}
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, inlineHTML(block.Text), level)
		case KindSubheading:
			fmt.Fprintf(&b, "<h4>%s</h4>\n", inlineHTML(block.Text))
		case KindRule:
			b.WriteString("<hr>\n")
		case KindCodeBlock:
			if block.Language != "" {
				fmt.Fprintf(&b, "<pre><code class=\"language-%s\">%s</code></pre>\n",
					html.EscapeString(block.Language), html.EscapeString(block.Code))
			} else {
				fmt.Fprintf(&b, "<pre><code>%s</code></pre>\n", html.EscapeString(block.Code))
			}
		case KindQuote:
			fmt.Fprintf(&b, "<blockquote>%s</blockquote>\n", inlineHTML(block.Text))
		case KindList:
			renderHTMLList(&b, block)
		case KindTable:
			renderHTMLTable(&b, block)
		default:
			fmt.Fprintf(&b, "<p>%s</p>\n", inlineHTML(block.Text))
		}
	}
	return b.String()
}

func renderHTMLList(b *strings.Builder, block Block) {
	tag := "ul"
	if block.Ordered {
		tag = "ol"
	}
	fmt.Fprintf(b, "<%s>\n", tag)
	for _, item := range block.Items {
		fmt.Fprintf(b, "<li>%s</li>\n", inlineHTML(item.Text))
	}
	fmt.Fprintf(b, "</%s>\n", tag)
}

func renderHTMLTable(b *strings.Builder, block Block) {
	b.WriteString("<table>\n")
	if block.Header != nil {
		b.WriteString("<thead><tr>")
		for _, cell := range block.Header {
			fmt.Fprintf(b, "<th>%s</th>", inlineHTML(cell))
		}
		b.WriteString("</tr></thead>\n")
	}
	b.WriteString("<tbody>\n")
	for _, row := range block.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(b, "<td>%s</td>", inlineHTML(cell))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
}

func inlineHTML(in Inline) string {
	var b strings.Builder
	for _, span := range in {
		escaped := html.EscapeString(span.Text)
		switch span.Style {
		case SpanBold:
			b.WriteString("<strong>" + escaped + "</strong>")
		case SpanItalic:
			b.WriteString("<em>" + escaped + "</em>")
		case SpanCode:
			b.WriteString("<code>" + escaped + "</code>")
		case SpanLink:
			fmt.Fprintf(&b, "<a href=\"%s\">%s</a>", span.Href, escaped)
		default:
			b.WriteString(escaped)
		}
	}
	return b.String()
}
