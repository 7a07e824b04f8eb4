package format

import (
	"regexp"
	"strings"
)

var (
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")
	boldStarRe   = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__([^_\n]+)__`)
	linkRe       = regexp.MustCompile(`\[([^\]\n]+)\]\(([^)\s]+)\)`)
)

// parseInline converts raw inline text into styled spans. Substitution order
// is fixed: inline code first (so asterisks and underscores inside code are
// never read as emphasis), then bold, then italic, then links. Delimiters
// that do not pair up stay literal text.
func parseInline(text string) Inline {
	if text == "" {
		return nil
	}
	var spans Inline
	rest := text
	for {
		loc := inlineCodeRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			spans = append(spans, parseEmphasis(rest)...)
			break
		}
		spans = append(spans, parseEmphasis(rest[:loc[0]])...)
		spans = append(spans, Span{Style: SpanCode, Text: rest[loc[2]:loc[3]]})
		rest = rest[loc[1]:]
	}
	return mergePlain(spans)
}

// parseEmphasis handles bold, italic and links in non-code text.
func parseEmphasis(text string) Inline {
	if text == "" {
		return nil
	}
	for _, re := range []*regexp.Regexp{boldStarRe, boldUnderRe} {
		if loc := re.FindStringSubmatchIndex(text); loc != nil {
			var spans Inline
			spans = append(spans, parseEmphasis(text[:loc[0]])...)
			spans = append(spans, Span{Style: SpanBold, Text: text[loc[2]:loc[3]]})
			spans = append(spans, parseEmphasis(text[loc[1]:])...)
			return spans
		}
	}
	if spans, ok := parseItalic(text); ok {
		return spans
	}
	return parseLinks(text)
}

// parseItalic finds the first defensible single-delimiter italic run.
// Guards against stray asterisks in technical text (multiplication, SQL
// SELECT *): the delimited content must hug non-whitespace on both ends and
// the delimiters must not touch word characters or more delimiters outside,
// so "3 * 4" and "2*3*4" stay literal while "*word*" italicizes.
func parseItalic(text string) (Inline, bool) {
	for _, delim := range []byte{'*', '_'} {
		start := -1
		for i := 0; i < len(text); i++ {
			if text[i] != delim {
				continue
			}
			if start == -1 {
				if isEmphasisBoundary(text, i-1) && i+1 < len(text) && !isSpaceAt(text, i+1) && text[i+1] != delim {
					start = i
				}
				continue
			}
			if !isSpaceAt(text, i-1) && isEmphasisBoundary(text, i+1) && i > start+1 {
				var spans Inline
				spans = append(spans, parseLinks(text[:start])...)
				spans = append(spans, Span{Style: SpanItalic, Text: text[start+1 : i]})
				spans = append(spans, parseEmphasis(text[i+1:])...)
				return spans, true
			}
		}
	}
	return nil, false
}

// isEmphasisBoundary reports whether the byte at idx (or the string edge)
// can sit outside an emphasis delimiter.
func isEmphasisBoundary(text string, idx int) bool {
	if idx < 0 || idx >= len(text) {
		return true
	}
	c := text[idx]
	if c == '*' || c == '_' {
		return false
	}
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}

func isSpaceAt(text string, idx int) bool {
	if idx < 0 || idx >= len(text) {
		return true
	}
	return text[idx] == ' ' || text[idx] == '\t'
}

// parseLinks converts [text](url) pairs, leaving everything else plain.
func parseLinks(text string) Inline {
	if text == "" {
		return nil
	}
	var spans Inline
	rest := text
	for {
		loc := linkRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			if rest != "" {
				spans = append(spans, Span{Style: SpanPlain, Text: rest})
			}
			break
		}
		if before := rest[:loc[0]]; before != "" {
			spans = append(spans, Span{Style: SpanPlain, Text: before})
		}
		spans = append(spans, Span{
			Style: SpanLink,
			Text:  rest[loc[2]:loc[3]],
			Href:  rest[loc[4]:loc[5]],
		})
		rest = rest[loc[1]:]
	}
	return spans
}

// mergePlain joins adjacent plain spans left behind by the recursive passes.
func mergePlain(spans Inline) Inline {
	var out Inline
	for _, span := range spans {
		if span.Text == "" && span.Style != SpanLink {
			continue
		}
		if len(out) > 0 && span.Style == SpanPlain && out[len(out)-1].Style == SpanPlain {
			out[len(out)-1].Text += span.Text
			continue
		}
		out = append(out, span)
	}
	return out
}

// inlineFromWords is a convenience for building plain inline content.
func inlineFromWords(text string) Inline {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return Inline{{Style: SpanPlain, Text: text}}
}
