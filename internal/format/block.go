// Package format turns raw explanation text into structured presentational
// blocks. The pipeline is an explicit ordered list of named stages; each
// stage's patterns assume the text shape left by the previous stage, so the
// ordering is load-bearing. The output is a typed block tree that the
// renderers convert to terminal text, HTML or markdown; blocks are never
// re-parsed, which keeps repeated formatting from double-wrapping anything.
//
// The formatter has no error channel: input that cannot be cleanly
// recognized as a table, list or fence falls through to plain paragraph
// wrapping.
package format

// BlockKind tags one structural unit of formatted output.
type BlockKind string

const (
	KindHeading    BlockKind = "heading"
	KindSubheading BlockKind = "subheading"
	KindParagraph  BlockKind = "paragraph"
	KindList       BlockKind = "list"
	KindCodeBlock  BlockKind = "code"
	KindQuote      BlockKind = "quote"
	KindTable      BlockKind = "table"
	KindRule       BlockKind = "rule"
)

// SpanStyle tags an inline run of text.
type SpanStyle string

const (
	SpanPlain  SpanStyle = "plain"
	SpanBold   SpanStyle = "bold"
	SpanItalic SpanStyle = "italic"
	SpanCode   SpanStyle = "inline-code"
	SpanLink   SpanStyle = "link"
)

// Span is one inline run. Href is set for SpanLink only; the URL is passed
// through unescaped from the source text (the producer of the raw text is
// trusted not to inject unsafe URLs).
type Span struct {
	Style SpanStyle
	Text  string
	Href  string
}

// Inline is the parsed inline content of a block or cell.
type Inline []Span

// ListItem is one list entry with its nesting depth (0-based).
type ListItem struct {
	Text  Inline
	Depth int
}

// Block is one structural unit. Which fields are meaningful depends on Kind:
// headings and paragraphs and quotes carry Text, code blocks carry
// Language/Code, lists carry Ordered/Items, tables carry Header/Rows.
type Block struct {
	Kind     BlockKind
	Level    int
	Text     Inline
	Language string
	Code     string
	Ordered  bool
	Items    []ListItem
	Header   []Inline
	Rows     [][]Inline
}

// plainText flattens inline content back to its literal text.
func plainText(in Inline) string {
	var out []byte
	for _, span := range in {
		out = append(out, span.Text...)
	}
	return string(out)
}
