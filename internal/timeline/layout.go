// Package timeline maps task date spans onto a fixed-width character grid
// for the per-project Gantt view. It is pure: no IO, no terminal types.
package timeline

import (
	"math"
	"strings"
	"time"

	"github.com/dohr-michael/taskdeck/internal/task"
)

const dateLayout = "2006-01-02"

// Bar is one task's span mapped to columns.
type Bar struct {
	Item     *task.Item
	StartCol int
	Length   int // columns, never below 1
	Filled   int // leading filled columns derived from progress
}

// Layout is the computed grid for one project's child tasks.
type Layout struct {
	WindowStart time.Time
	WindowEnd   time.Time
	TotalDays   int
	DaysPerCol  float64
	Width       int
	TodayCol    int // -1 when today is outside the window
	Bars        []Bar
	MonthHeader string
}

// Day truncates a time to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// parseDate reads an opaque stored date. Anything that is not YYYY-MM-DD
// counts as absent.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ResolveSpan derives a task's plotted span: start falls back from
// start_date to due_date to today; end falls back from end_date to
// due_date to start plus one week.
func ResolveSpan(it *task.Item, today time.Time) (start, end time.Time) {
	start, ok := parseDate(it.StartDate)
	if !ok {
		if start, ok = parseDate(it.DueDate); !ok {
			start = today
		}
	}
	end, ok = parseDate(it.EndDate)
	if !ok {
		if end, ok = parseDate(it.DueDate); !ok {
			end = start.AddDate(0, 0, 7)
		}
	}
	return start, end
}

// DateToCol maps a date into [0, width-1]. The mapping floors, clamps and
// is monotonic non-decreasing in the date.
func DateToCol(date, windowStart time.Time, daysPerCol float64, width int) int {
	days := float64(daysBetween(windowStart, date))
	if days < 0 {
		days = 0
	}
	col := int(days / daysPerCol)
	if col > width-1 {
		col = width - 1
	}
	return col
}

// Compute lays out the given tasks on a grid of width columns. The base
// window spans a week back and thirty days ahead of today, stretched to
// cover any task's resolved span, then shifted by scrollDays.
func Compute(today time.Time, items []*task.Item, scrollDays, width int) Layout {
	if width < 1 {
		width = 1
	}
	today = Day(today)

	winStart := today.AddDate(0, 0, -7)
	winEnd := today.AddDate(0, 0, 30)
	for _, it := range items {
		s, e := ResolveSpan(it, today)
		if s.Before(winStart) {
			winStart = s
		}
		if e.After(winEnd) {
			winEnd = e
		}
	}
	winStart = winStart.AddDate(0, 0, scrollDays)
	winEnd = winEnd.AddDate(0, 0, scrollDays)

	totalDays := daysBetween(winStart, winEnd)
	if totalDays < 1 {
		totalDays = 1
	}
	daysPerCol := float64(totalDays) / float64(width)
	if daysPerCol < 1.0 {
		daysPerCol = 1.0
	}

	todayCol := -1
	if !today.Before(winStart) && !today.After(winEnd) {
		todayCol = DateToCol(today, winStart, daysPerCol, width)
	}

	layout := Layout{
		WindowStart: winStart,
		WindowEnd:   winEnd,
		TotalDays:   totalDays,
		DaysPerCol:  daysPerCol,
		Width:       width,
		TodayCol:    todayCol,
		MonthHeader: monthHeader(winStart, daysPerCol, width),
	}

	for _, it := range items {
		s, e := ResolveSpan(it, today)
		startCol := DateToCol(s, winStart, daysPerCol, width)
		endCol := DateToCol(e, winStart, daysPerCol, width)
		length := endCol - startCol
		if length < 1 {
			length = 1
		}
		filled := int(math.Round(float64(length) * float64(it.EffectiveProgress()) / 100.0))
		layout.Bars = append(layout.Bars, Bar{
			Item:     it,
			StartCol: startCol,
			Length:   length,
			Filled:   filled,
		})
	}
	return layout
}

// RenderBar draws one bar row as plain glyphs: filled █, remaining ░, the
// today column marked │ when the cell is unoccupied.
func RenderBar(b Bar, width, todayCol int) string {
	cells := make([]rune, width)
	for i := range cells {
		cells[i] = ' '
	}
	for i := 0; i < b.Length; i++ {
		col := b.StartCol + i
		if col >= width {
			break
		}
		if i < b.Filled {
			cells[col] = '█'
		} else {
			cells[col] = '░'
		}
	}
	if todayCol >= 0 && todayCol < width && cells[todayCol] == ' ' {
		cells[todayCol] = '│'
	}
	return string(cells)
}

// monthHeader writes an abbreviated month label at each column where the
// mapped date crosses a month boundary.
func monthHeader(winStart time.Time, daysPerCol float64, width int) string {
	var b strings.Builder
	lastMonth := ""
	for col := 0; col < width; col++ {
		date := winStart.AddDate(0, 0, int(float64(col)*daysPerCol))
		month := date.Format("Jan")
		if month != lastMonth {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(month)
			lastMonth = month
		} else {
			b.WriteByte(' ')
		}
		if b.Len() >= width {
			break
		}
	}
	header := b.String()
	if len(header) > width {
		header = header[:width]
	}
	if len(header) < width {
		header += strings.Repeat(" ", width-len(header))
	}
	return header
}

// ProjectProgress derives a project's completion from its children: the
// share of children in status done or archived, as a whole percentage.
func ProjectProgress(children []*task.Item) int {
	if len(children) == 0 {
		return 0
	}
	done := 0
	for _, it := range children {
		if it.Status == task.StatusDone || it.Status == task.StatusArchived {
			done++
		}
	}
	return int(float64(done) / float64(len(children)) * 100.0)
}

// StatusCounts tallies children per status.
func StatusCounts(children []*task.Item) map[task.Status]int {
	counts := make(map[task.Status]int, len(task.Statuses))
	for _, it := range children {
		counts[it.Status]++
	}
	return counts
}
