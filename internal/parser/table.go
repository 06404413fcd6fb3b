package parser

import "strings"

// ParseTable splits a table segment into raw header and body cells.
//
// The header is the line right above the first line containing "---", or the
// first line when the separator is missing or comes first. Lines above the
// header are dropped. A segment with fewer than two lines cannot be told apart
// from stray text, so it comes back with no headers and a single row holding
// the joined lines verbatim.
func ParseTable(lines []string) (headers []string, rows [][]string) {
	if len(lines) < 2 {
		return nil, [][]string{{strings.Join(lines, "\n")}}
	}

	header := lines[0]
	body := lines[1:]
	if s := separatorIndex(lines); s >= 0 {
		if s > 0 {
			header = lines[s-1]
		}
		body = lines[s+1:]
	}

	rows = make([][]string, 0, len(body))
	for _, line := range body {
		rows = append(rows, SplitCells(line))
	}
	return SplitCells(header), rows
}

// SplitCells splits one table line into trimmed cells, dropping a single
// outer pipe on each side. Column counts are left as found.
func SplitCells(line string) []string {
	content := strings.TrimSpace(line)
	content = strings.TrimPrefix(content, "|")
	content = strings.TrimSuffix(content, "|")

	cells := strings.Split(content, "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

func separatorIndex(lines []string) int {
	for i, line := range lines {
		if strings.Contains(line, "---") {
			return i
		}
	}
	return -1
}
