package format

import (
	"regexp"
	"strings"
)

// node is either a resolved block or one still-unresolved raw line. Stages
// only ever look at contiguous runs of raw lines; resolved blocks are never
// reprocessed, which is what makes the pipeline idempotence-safe.
type node struct {
	block *Block
	line  string
	raw   bool
}

type document struct {
	nodes []node
}

type stage struct {
	name  string
	apply func(*document)
}

// pipeline is the ordered stage list. The order is load-bearing: each
// stage's patterns assume the shape left by its predecessors (tables are
// carved out before headings can eat their title lines, fences before any
// inline substitution, cleanup before paragraph wrapping).
var pipeline = []stage{
	{"normalize-whitespace", stageNormalizeWhitespace},
	{"reshape-inline-tables", stageReshapeInlineTables},
	{"detect-tables", stageDetectTables},
	{"detect-headings", stageDetectHeadings},
	{"detect-rules", stageDetectRules},
	{"detect-lists", stageDetectLists},
	{"fence-code-blocks", stageFenceCodeBlocks},
	{"detect-quotes", stageDetectQuotes},
	{"cleanup", stageCleanup},
	{"wrap-paragraphs", stageWrapParagraphs},
}

// StageNames returns the ordered stage names of the pipeline.
func StageNames() []string {
	names := make([]string, len(pipeline))
	for i, st := range pipeline {
		names[i] = st.name
	}
	return names
}

// Format runs the full pipeline over raw explanation text and returns the
// structured blocks. It never fails: anything unrecognized degrades to
// paragraph text, and empty input yields no blocks.
func Format(raw string) []Block {
	doc := newDocument(raw)
	for _, st := range pipeline {
		st.apply(doc)
	}
	blocks := make([]Block, 0, len(doc.nodes))
	for _, n := range doc.nodes {
		if n.block != nil {
			blocks = append(blocks, *n.block)
		}
	}
	return blocks
}

func newDocument(raw string) *document {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	lines := strings.Split(raw, "\n")
	doc := &document{nodes: make([]node, 0, len(lines))}
	for _, line := range lines {
		doc.nodes = append(doc.nodes, node{line: line, raw: true})
	}
	return doc
}

// stageNormalizeWhitespace expands tabs, trims trailing space and caps
// consecutive blank lines at one.
func stageNormalizeWhitespace(doc *document) {
	out := doc.nodes[:0]
	blankRun := 0
	for _, n := range doc.nodes {
		if !n.raw {
			out = append(out, n)
			blankRun = 0
			continue
		}
		line := strings.TrimRight(strings.ReplaceAll(n.line, "\t", "    "), " \t")
		if strings.TrimSpace(line) == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
			line = ""
		} else {
			blankRun = 0
		}
		out = append(out, node{line: line, raw: true})
	}
	doc.nodes = trimBlankEdges(out)
}

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s*(.*)$`)
	ruleRe    = regexp.MustCompile(`^\s*(-{3,}|\*{3,}|_{3,})\s*$`)
	quoteRe   = regexp.MustCompile(`^\s*>\s?(.*)$`)
	fenceRe   = regexp.MustCompile("^\\s*```\\s*([A-Za-z0-9+#._-]*)\\s*$")
)

// stageDetectHeadings turns #-prefixed lines into heading blocks: one to
// three hashes make a major heading, four or more a minor one.
func stageDetectHeadings(doc *document) {
	for i, n := range doc.nodes {
		if !n.raw {
			continue
		}
		m := headingRe.FindStringSubmatch(n.line)
		if m == nil {
			continue
		}
		kind := KindHeading
		if len(m[1]) >= 4 {
			kind = KindSubheading
		}
		doc.nodes[i] = node{block: &Block{
			Kind:  kind,
			Level: len(m[1]),
			Text:  parseInline(strings.TrimSpace(m[2])),
		}}
	}
}

// stageDetectRules turns runs of three or more -, * or _ into dividers.
func stageDetectRules(doc *document) {
	for i, n := range doc.nodes {
		if !n.raw {
			continue
		}
		if ruleRe.MatchString(n.line) {
			doc.nodes[i] = node{block: &Block{Kind: KindRule}}
		}
	}
}

var (
	orderedItemRe = regexp.MustCompile(`^(\s*)(\d+)[.)]\s+(.+)$`)
	bulletItemRe  = regexp.MustCompile(`^(\s*)[-*+•]\s+(.+)$`)
)

// stageDetectLists groups contiguous runs of list-shaped lines into list
// blocks. Nesting depth derives from indent width: every two spaces is one
// level. Switching between numbered and bulleted shapes starts a new block.
func stageDetectLists(doc *document) {
	var out []node
	i := 0
	for i < len(doc.nodes) {
		n := doc.nodes[i]
		if !n.raw {
			out = append(out, n)
			i++
			continue
		}
		ordered, item, ok := matchListItem(n.line)
		if !ok {
			out = append(out, n)
			i++
			continue
		}
		block := &Block{Kind: KindList, Ordered: ordered, Items: []ListItem{item}}
		i++
		for i < len(doc.nodes) && doc.nodes[i].raw {
			nextOrdered, nextItem, nextOK := matchListItem(doc.nodes[i].line)
			if !nextOK || nextOrdered != ordered {
				break
			}
			block.Items = append(block.Items, nextItem)
			i++
		}
		out = append(out, node{block: block})
	}
	doc.nodes = out
}

func matchListItem(line string) (ordered bool, item ListItem, ok bool) {
	if m := orderedItemRe.FindStringSubmatch(line); m != nil {
		return true, ListItem{Text: parseInline(m[3]), Depth: len(m[1]) / 2}, true
	}
	if m := bulletItemRe.FindStringSubmatch(line); m != nil {
		return false, ListItem{Text: parseInline(m[2]), Depth: len(m[1]) / 2}, true
	}
	return false, ListItem{}, false
}

// stageFenceCodeBlocks converts triple-backtick fences with an optional
// language tag. A fence that never closes within its contiguous raw run is
// left alone and falls through to paragraph wrapping.
func stageFenceCodeBlocks(doc *document) {
	var out []node
	i := 0
	for i < len(doc.nodes) {
		n := doc.nodes[i]
		if !n.raw {
			out = append(out, n)
			i++
			continue
		}
		m := fenceRe.FindStringSubmatch(n.line)
		if m == nil {
			out = append(out, n)
			i++
			continue
		}
		closing := -1
		for j := i + 1; j < len(doc.nodes) && doc.nodes[j].raw; j++ {
			if inner := fenceRe.FindStringSubmatch(doc.nodes[j].line); inner != nil && inner[1] == "" {
				closing = j
				break
			}
		}
		if closing == -1 {
			out = append(out, n)
			i++
			continue
		}
		var body []string
		for j := i + 1; j < closing; j++ {
			body = append(body, doc.nodes[j].line)
		}
		out = append(out, node{block: &Block{
			Kind:     KindCodeBlock,
			Language: m[1],
			Code:     strings.Join(body, "\n"),
		}})
		i = closing + 1
	}
	doc.nodes = out
}

// stageDetectQuotes groups contiguous >-prefixed lines into one quote block.
func stageDetectQuotes(doc *document) {
	var out []node
	i := 0
	for i < len(doc.nodes) {
		n := doc.nodes[i]
		if !n.raw {
			out = append(out, n)
			i++
			continue
		}
		m := quoteRe.FindStringSubmatch(n.line)
		if m == nil {
			out = append(out, n)
			i++
			continue
		}
		parts := []string{m[1]}
		i++
		for i < len(doc.nodes) && doc.nodes[i].raw {
			next := quoteRe.FindStringSubmatch(doc.nodes[i].line)
			if next == nil {
				break
			}
			parts = append(parts, next[1])
			i++
		}
		out = append(out, node{block: &Block{
			Kind: KindQuote,
			Text: parseInline(strings.TrimSpace(strings.Join(parts, " "))),
		}})
	}
	doc.nodes = out
}

// stageCleanup drops leftover stray table pipes and squeezes blank lines
// again before paragraph wrapping.
func stageCleanup(doc *document) {
	out := doc.nodes[:0]
	blankRun := 0
	for _, n := range doc.nodes {
		if !n.raw {
			out = append(out, n)
			blankRun = 0
			continue
		}
		line := n.line
		if trimmed := strings.TrimSpace(line); trimmed == "|" || trimmed == "||" {
			continue
		}
		if strings.TrimSpace(line) == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, n)
	}
	doc.nodes = trimBlankEdges(out)
}

// stageWrapParagraphs wraps whatever raw text remains. Chunks split on
// blank lines; each chunk becomes one paragraph with inline substitution.
func stageWrapParagraphs(doc *document) {
	var out []node
	var chunk []string
	flush := func() {
		text := strings.TrimSpace(strings.Join(chunk, " "))
		chunk = chunk[:0]
		if text == "" {
			return
		}
		out = append(out, node{block: &Block{
			Kind: KindParagraph,
			Text: parseInline(text),
		}})
	}
	for _, n := range doc.nodes {
		if !n.raw {
			flush()
			out = append(out, n)
			continue
		}
		if strings.TrimSpace(n.line) == "" {
			flush()
			continue
		}
		chunk = append(chunk, strings.TrimSpace(n.line))
	}
	flush()
	doc.nodes = out
}

func trimBlankEdges(nodes []node) []node {
	start := 0
	for start < len(nodes) && nodes[start].raw && strings.TrimSpace(nodes[start].line) == "" {
		start++
	}
	end := len(nodes)
	for end > start && nodes[end-1].raw && strings.TrimSpace(nodes[end-1].line) == "" {
		end--
	}
	return nodes[start:end]
}
