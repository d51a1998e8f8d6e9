package core

import "strings"

const byteOrderMark = "\uFEFF"

// CleanHeader trims surrounding whitespace from every column name and strips a
// leading byte-order mark from the first one.
func CleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if i == 0 && strings.HasPrefix(col, byteOrderMark) {
			col = strings.TrimSpace(strings.TrimLeft(col, byteOrderMark))
		}
		out[i] = col
	}
	return out
}

// ClassifyRow decides whether a data row is kept. Blank rows are checked
// first, so a row of empty fields is blank even when its width is wrong.
func ClassifyRow(row []string, width int) RowDecision {
	if isEmptyRow(row) {
		return RowBlank
	}
	if len(row) != width {
		return RowMalformed
	}
	return RowKeep
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
