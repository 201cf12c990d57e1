package analysis

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 10
	maxBarWidth         = 3
	axisSeparator       = " │ "
	sparkChars          = " .:-=+*#%@"
	colorReset          = "\x1b[0m"
	barColor            = "\x1b[36m"
	terminalWidthBackup = 80
)

// eighths of a cell, bottom to top
var barBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Histogram describes a labeled bar chart.
type Histogram struct {
	Title  string
	Labels []string
	Values []int
}

// RenderHistogram draws a vertical bar chart sized to the terminal.
func RenderHistogram(w io.Writer, h Histogram, height int) error {
	return renderHistogram(w, h, 0, height, false)
}

// RenderHistogramWithSize draws a bar chart within totalWidth columns.
func RenderHistogramWithSize(w io.Writer, h Histogram, totalWidth, height int, forceColor bool) error {
	return renderHistogram(w, h, totalWidth, height, forceColor)
}

func renderHistogram(w io.Writer, h Histogram, totalWidth, height int, forceColor bool) error {
	if len(h.Values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}

	maxVal := 0
	for _, v := range h.Values {
		if v > maxVal {
			maxVal = v
		}
	}
	axisWidth := len(strconv.Itoa(maxVal))
	barWidth := BarWidthFor(totalWidth, axisWidth, len(h.Values))
	useColor := shouldUseColor(w, forceColor)

	if h.Title != "" {
		if _, err := fmt.Fprintln(w, h.Title); err != nil {
			return err
		}
	}
	levels := barLevels(h.Values, maxVal, height)
	for y := height - 1; y >= 0; y-- {
		label := ""
		switch {
		case y == height-1:
			label = strconv.Itoa(maxVal)
		case y == 0:
			label = "0"
		}
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisWidth, label, axisSeparator))
		for _, level := range levels {
			fill := level - y*8
			if fill < 0 {
				fill = 0
			}
			if fill > 8 {
				fill = 8
			}
			cell := strings.Repeat(string(barBlocks[fill]), barWidth)
			if useColor && fill > 0 {
				cell = barColor + cell + colorReset
			}
			row.WriteString(cell)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(row.String(), " ")); err != nil {
			return err
		}
	}

	var labels strings.Builder
	labels.WriteString(strings.Repeat(" ", axisWidth+runewidth.StringWidth(axisSeparator)))
	for _, l := range h.Labels {
		labels.WriteString(runewidth.FillRight(runewidth.Truncate(l, barWidth, ""), barWidth))
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(labels.String(), " ")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// barLevels scales each value to eighths of a cell over height rows.
func barLevels(values []int, maxVal, height int) []int {
	levels := make([]int, len(values))
	if maxVal <= 0 {
		return levels
	}
	for i, v := range values {
		levels[i] = int(math.Round(float64(v) / float64(maxVal) * float64(height*8)))
	}
	return levels
}

// BarWidthFor computes the per-bar width that fits bars columns within totalWidth.
func BarWidthFor(totalWidth, axisWidth, bars int) int {
	if bars <= 0 || totalWidth <= 0 {
		return 1
	}
	available := totalWidth - axisWidth - runewidth.StringWidth(axisSeparator)
	width := available / bars
	if width > maxBarWidth {
		width = maxBarWidth
	}
	if width < 1 {
		width = 1
	}
	return width
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
