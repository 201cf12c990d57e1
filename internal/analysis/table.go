package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/shiftcrack/internal/model"
)

// RenderTable prints the frequency table with one column per letter.
func RenderTable(w io.Writer, table model.FrequencyTable) error {
	if len(table.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No shifts to analyze.")
		return err
	}
	letters := []rune(table.Alphabet)
	headers := make([]string, 0, len(letters)+2)
	headers = append(headers, "Shift")
	for _, r := range letters {
		headers = append(headers, string(r))
	}
	headers = append(headers, "Profile")

	rightAlign := map[int]bool{}
	for i := 0; i <= len(letters); i++ {
		rightAlign[i] = true
	}

	rows := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		values := RowValues(table.Alphabet, row)
		cells := make([]string, 0, len(values)+2)
		cells = append(cells, strconv.Itoa(row.Shift))
		floats := make([]float64, len(values))
		for i, v := range values {
			cells = append(cells, strconv.Itoa(v))
			floats[i] = float64(v)
		}
		cells = append(cells, Sparkline(floats))
		rows = append(rows, cells)
	}

	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the table with a "Shift <k>" label column and one column per letter.
func WriteCSV(w io.Writer, table model.FrequencyTable) error {
	cw := csv.NewWriter(w)
	letters := []rune(table.Alphabet)
	header := make([]string, 0, len(letters)+1)
	header = append(header, "")
	for _, r := range letters {
		header = append(header, string(r))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range table.Rows {
		record := make([]string, 0, len(letters)+1)
		record = append(record, fmt.Sprintf("Shift %d", row.Shift))
		for _, v := range RowValues(table.Alphabet, row) {
			record = append(record, strconv.Itoa(v))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePossibleShifts writes one "Shift <k>: <text>" line per candidate.
func WritePossibleShifts(w io.Writer, texts []model.ShiftText) error {
	for _, st := range texts {
		if _, err := fmt.Fprintf(w, "Shift %d: %s\n", st.Shift, st.Text); err != nil {
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
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
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
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
