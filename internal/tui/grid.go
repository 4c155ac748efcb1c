package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/util"
)

const (
	minCellWidth = 6
	// Month cells show at most this many events before "+N more".
	maxChips    = 3
	hourGutter  = 6
	chipMarker  = "● "
	autoMarker  = "◌ "
	nowMarker   = "━"
	noSelection = -1
)

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// RenderGrid draws a calendar grid into a string width cells wide.
// selected is an index into g.Placements(); pass -1 to highlight nothing.
func RenderGrid(g calendar.Grid, width, selected int) string {
	switch {
	case g.Month != nil:
		return renderMonth(g.Month, width, selected)
	case g.Time != nil:
		return renderTime(g.Time, width, selected)
	default:
		return ""
	}
}

func renderMonth(mg *calendar.MonthGrid, width, selected int) string {
	colWidth := max((width-8)/7, minCellWidth)

	var lines []string
	header := make([]string, 7)
	for i, name := range weekdayNames {
		header[i] = pad(WeekdayHeaderStyle.Render(util.Truncate(name, colWidth)), colWidth)
	}
	lines = append(lines, joinCells(header))
	lines = append(lines, rule("├", "┼", "┤", colWidth, 7))

	idx := 0
	for r, row := range mg.Rows {
		height := 1
		for _, c := range row {
			n := min(len(c.Events), maxChips)
			if len(c.Events) > maxChips {
				n++
			}
			height = max(height, n+1)
		}

		block := make([][]string, height)
		for i := range block {
			block[i] = make([]string, 7)
		}
		for ci, c := range row {
			col := make([]string, height)
			if !c.Blank {
				num := fmt.Sprintf("%2d", c.Day)
				if c.Today {
					num = TodayStyle.Render(num)
				} else {
					num = DayNumberStyle.Render(num)
				}
				col[0] = num
				for i, p := range c.Events {
					if i < maxChips {
						col[i+1] = chip(p, colWidth, idx == selected)
					} else if i == maxChips {
						col[i+1] = HintStyle.Render(fmt.Sprintf("+%d more", len(c.Events)-maxChips))
					}
					idx++
				}
			}
			for i := range col {
				block[i][ci] = pad(col[i], colWidth)
			}
		}
		for _, cells := range block {
			lines = append(lines, joinCells(cells))
		}
		if r < len(mg.Rows)-1 {
			lines = append(lines, rule("├", "┼", "┤", colWidth, 7))
		}
	}
	return strings.Join(lines, "\n")
}

func renderTime(tg *calendar.TimeGrid, width, selected int) string {
	cols := len(tg.Columns)
	if cols == 0 {
		return ""
	}
	colWidth := max((width-hourGutter-cols-1)/cols, minCellWidth)
	slots := tg.Slots()

	// Placements are numbered column by column.
	base := make([]int, cols)
	for i := 1; i < cols; i++ {
		base[i] = base[i-1] + len(tg.Columns[i-1].Events)
	}

	cells := make([][]string, slots)
	for i := range cells {
		cells[i] = make([]string, cols)
	}
	for ci, col := range tg.Columns {
		if col.HasIndicator {
			if row := slotOf(col.Indicator, slots); row < slots {
				cells[row][ci] = NowLineStyle.Render(strings.Repeat(nowMarker, colWidth))
			}
		}
		last := slots - 1
		for i, p := range col.Events {
			row := slotOf(p.Top, slots) + i
			if hidden := len(col.Events) - i; row > last || (row == last && hidden > 1) {
				first := base[ci] + i
				cells[last][ci] = moreMarker(hidden, colWidth, selected >= first && selected < first+hidden)
				break
			}
			cells[row][ci] = chip(p, colWidth, base[ci]+i == selected)
		}
	}

	var lines []string
	header := make([]string, cols)
	for ci, col := range tg.Columns {
		h := util.Truncate(col.Header, colWidth)
		if col.Today {
			h = TodayStyle.Render(h)
		} else {
			h = WeekdayHeaderStyle.Render(h)
		}
		header[ci] = pad(h, colWidth)
	}
	lines = append(lines, strings.Repeat(" ", hourGutter)+joinCells(header))
	lines = append(lines, strings.Repeat(" ", hourGutter)+rule("├", "┼", "┤", colWidth, cols))

	for i, hour := range tg.Hours {
		row := make([]string, cols)
		for ci := range row {
			row[ci] = pad(cells[i][ci], colWidth)
		}
		label := HourStyle.Render(fmt.Sprintf("%*s ", hourGutter-1, calendar.FormatHour(hour)))
		lines = append(lines, label+joinCells(row))
	}
	return strings.Join(lines, "\n")
}

// moreMarker stands in for events that don't fit below the last row.
func moreMarker(n, width int, selected bool) string {
	label := util.Truncate(fmt.Sprintf("+%d more", n), width)
	if selected {
		return SelectedItemStyle.Render(label)
	}
	return HintStyle.Render(label)
}

// slotOf converts a fractional offset into a row index.
func slotOf(frac float64, slots int) int {
	row := int(frac*float64(slots) + 1e-9)
	return max(row, 0)
}

func chip(p calendar.Placement, width int, selected bool) string {
	marker := chipMarker
	if p.Event.IsAutoGenerated {
		marker = autoMarker
	}
	text := util.Truncate(marker+p.Event.Text(), width)
	switch {
	case selected:
		return SelectedItemStyle.Render(text)
	case p.Dimmed:
		return DimmedItemStyle.Render(text)
	default:
		return EventStyle(p.Event.DisplayColor()).Render(text)
	}
}

// pad right-fills s with spaces to width visible cells.
func pad(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func joinCells(cells []string) string {
	sep := GridLineStyle.Render("│")
	return sep + strings.Join(cells, sep) + sep
}

func rule(left, mid, right string, colWidth, cols int) string {
	parts := make([]string, cols)
	for i := range parts {
		parts[i] = strings.Repeat("─", colWidth)
	}
	return GridLineStyle.Render(left + strings.Join(parts, mid) + right)
}
