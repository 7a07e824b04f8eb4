package format

import (
	"regexp"
	"strings"
)

const maxTableColumns = 8

var (
	// inlineTableRe matches the malformed single-line "Table N: Name | a | b"
	// shape some generators emit; it is re-split into a proper block before
	// generic table handling runs.
	inlineTableRe = regexp.MustCompile(`(?i)^\s*(table\s+\d+\s*[:.]?\s*[^|]*?)\s*\|\s*(.+)$`)

	separatorCellRe = regexp.MustCompile(`^:?-+:?$`)

	headerVocab = map[string]bool{
		"name": true, "type": true, "value": true, "description": true,
		"feature": true, "property": true, "parameter": true, "example": true,
		"default": true, "column": true, "field": true, "key": true,
		"option": true, "term": true,
	}
)

// stageReshapeInlineTables rewrites the known malformed single-line table
// shape into a title line plus one pipe-wrapped row, which the generic
// detection then picks up.
func stageReshapeInlineTables(doc *document) {
	var out []node
	for _, n := range doc.nodes {
		if !n.raw {
			out = append(out, n)
			continue
		}
		m := inlineTableRe.FindStringSubmatch(n.line)
		if m == nil {
			out = append(out, n)
			continue
		}
		cells := splitPipeRow(m[2])
		if len(cells) < 2 {
			out = append(out, n)
			continue
		}
		out = append(out, node{line: strings.TrimSpace(m[1]), raw: true})
		out = append(out, node{line: "| " + strings.Join(cells, " | ") + " |", raw: true})
	}
	doc.nodes = out
}

// stageDetectTables groups contiguous pipe-delimited rows into table blocks.
// Separator rows are discarded; the first data row becomes the header when
// it looks like one; column count comes from the first data row, capped at
// maxTableColumns. A run that yields no usable rows is left for the
// paragraph stage.
func stageDetectTables(doc *document) {
	var out []node
	i := 0
	for i < len(doc.nodes) {
		n := doc.nodes[i]
		if !n.raw || !isPipeRow(n.line) {
			out = append(out, n)
			i++
			continue
		}
		start := i
		for i < len(doc.nodes) && doc.nodes[i].raw && isPipeRow(doc.nodes[i].line) {
			i++
		}
		run := doc.nodes[start:i]
		if block, ok := buildTable(run); ok {
			out = append(out, node{block: block})
			continue
		}
		out = append(out, run...)
	}
	doc.nodes = out
}

func isPipeRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, "|") {
		return false
	}
	wrapped := strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|")
	if wrapped {
		return len(splitPipeRow(trimmed)) >= 1
	}
	return len(splitPipeRow(trimmed)) >= 2
}

func buildTable(run []node) (*Block, bool) {
	var rows [][]string
	for _, n := range run {
		cells := splitPipeRow(n.line)
		if len(cells) == 0 || isSeparatorRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil, false
	}
	// A lone unwrapped "a | b" pair is more likely prose than a table.
	if len(rows) == 1 && !strings.HasPrefix(strings.TrimSpace(run[0].line), "|") {
		return nil, false
	}

	columns := len(rows[0])
	if columns > maxTableColumns {
		columns = maxTableColumns
	}

	block := &Block{Kind: KindTable}
	body := rows
	if looksLikeHeader(rows[0]) && len(rows) > 1 {
		block.Header = cellsToInline(rows[0], columns)
		body = rows[1:]
	}
	for _, row := range body {
		block.Rows = append(block.Rows, cellsToInline(row, columns))
	}
	return block, true
}

func splitPipeRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, strings.TrimSpace(part))
	}
	// Drop a fully empty row.
	empty := true
	for _, c := range cells {
		if c != "" {
			empty = false
			break
		}
	}
	if empty {
		return nil
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	sawDash := false
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if !separatorCellRe.MatchString(cell) {
			return false
		}
		sawDash = true
	}
	return sawDash
}

// looksLikeHeader applies the short-cells heuristic: every cell is short and
// either title-case, uppercase or a known header keyword.
func looksLikeHeader(cells []string) bool {
	for _, cell := range cells {
		if cell == "" || len(cell) > 20 {
			return false
		}
		if headerVocab[strings.ToLower(cell)] {
			continue
		}
		first := rune(cell[0])
		if first >= 'A' && first <= 'Z' {
			continue
		}
		return false
	}
	return true
}

// cellsToInline pads or truncates a row to the column count and applies
// per-cell inline substitution.
func cellsToInline(cells []string, columns int) []Inline {
	row := make([]Inline, columns)
	for i := 0; i < columns; i++ {
		if i < len(cells) {
			row[i] = parseInline(cells[i])
		}
	}
	return row
}
