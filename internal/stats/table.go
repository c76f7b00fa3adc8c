package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/buddytype/internal/model"
)

// ScoreColumns are the headers used wherever score history is tabulated.
var ScoreColumns = []string{"Date", "WPM", "Raw", "Accuracy", "Consistency", "Mode", "Language"}

// ScoreRow formats one entry to match ScoreColumns.
func ScoreRow(e model.ScoreEntry) []string {
	mode := fmt.Sprintf("%s %d", e.Mode, e.Duration)
	if e.Mode == model.ModeTime {
		mode += "s"
	}
	return []string{
		e.Date.Local().Format("2006-01-02 15:04"),
		fmt.Sprintf("%d", e.WPM),
		fmt.Sprintf("%d", e.RawWPM),
		fmt.Sprintf("%.2f%%", e.Accuracy),
		fmt.Sprintf("%.2f%%", e.Consistency),
		mode,
		e.Language,
	}
}

// RenderScores prints score history as an aligned text table.
func RenderScores(w io.Writer, entries []model.ScoreEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, ScoreRow(e))
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(ScoreColumns, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount && i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	padding := width - runewidth.StringWidth(value)
	if padding <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}
