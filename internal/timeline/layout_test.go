package timeline

import (
	"strings"
	"testing"
	"time"

	"github.com/dohr-michael/taskdeck/internal/task"
)

var today = time.Date(2026, 8, 25, 15, 4, 5, 0, time.UTC)

func child(start, due, end string, progress int, status task.Status) *task.Item {
	it := task.New("t", task.TypeTask)
	it.StartDate = start
	it.DueDate = due
	it.EndDate = end
	it.Status = status
	if progress >= 0 {
		p := progress
		it.Progress = &p
	}
	return it
}

func TestResolveSpanFallbacks(t *testing.T) {
	day := Day(today)

	s, e := ResolveSpan(child("2026-08-20", "", "2026-09-01", -1, task.StatusActive), day)
	if s.Format(dateLayout) != "2026-08-20" || e.Format(dateLayout) != "2026-09-01" {
		t.Errorf("explicit span = %v..%v", s, e)
	}

	// due_date stands in for both ends.
	s, e = ResolveSpan(child("", "2026-09-03", "", -1, task.StatusActive), day)
	if s.Format(dateLayout) != "2026-09-03" || e.Format(dateLayout) != "2026-09-03" {
		t.Errorf("due fallback span = %v..%v", s, e)
	}

	// Nothing set: today through today+7.
	s, e = ResolveSpan(child("", "", "", -1, task.StatusActive), day)
	if !s.Equal(day) || !e.Equal(day.AddDate(0, 0, 7)) {
		t.Errorf("default span = %v..%v", s, e)
	}

	// Unparsable dates count as absent.
	s, _ = ResolveSpan(child("soonish", "", "", -1, task.StatusActive), day)
	if !s.Equal(day) {
		t.Errorf("opaque start should fall back to today, got %v", s)
	}
}

func TestComputeBaseWindow(t *testing.T) {
	l := Compute(today, nil, 0, 40)
	if got := daysBetween(l.WindowStart, l.WindowEnd); got != 37 {
		t.Errorf("base window = %d days, want 37", got)
	}
	if !l.WindowStart.Equal(Day(today).AddDate(0, 0, -7)) {
		t.Errorf("window start = %v", l.WindowStart)
	}
}

func TestComputeWindowExpandsToTaskSpans(t *testing.T) {
	items := []*task.Item{
		child("2026-07-01", "", "", -1, task.StatusActive),
		child("", "", "2026-11-15", -1, task.StatusActive),
	}
	l := Compute(today, items, 0, 40)
	if l.WindowStart.Format(dateLayout) != "2026-07-01" {
		t.Errorf("window start = %v, want expanded to earliest start", l.WindowStart)
	}
	if l.WindowEnd.Format(dateLayout) != "2026-11-15" {
		t.Errorf("window end = %v, want expanded to latest end", l.WindowEnd)
	}
}

func TestComputeScrollShiftsWindow(t *testing.T) {
	base := Compute(today, nil, 0, 40)
	scrolled := Compute(today, nil, 7, 40)
	if !scrolled.WindowStart.Equal(base.WindowStart.AddDate(0, 0, 7)) {
		t.Errorf("scrolled start = %v", scrolled.WindowStart)
	}
	if !scrolled.WindowEnd.Equal(base.WindowEnd.AddDate(0, 0, 7)) {
		t.Errorf("scrolled end = %v", scrolled.WindowEnd)
	}
}

func TestDateToColMonotonic(t *testing.T) {
	l := Compute(today, nil, 0, 33)
	prev := -1
	for d := l.WindowStart; !d.After(l.WindowEnd); d = d.AddDate(0, 0, 1) {
		col := DateToCol(d, l.WindowStart, l.DaysPerCol, l.Width)
		if col < prev {
			t.Fatalf("column decreased at %v: %d < %d", d, col, prev)
		}
		if col < 0 || col >= l.Width {
			t.Fatalf("column out of range at %v: %d", d, col)
		}
		prev = col
	}
}

func TestScaleNeverFinerThanOneDay(t *testing.T) {
	// 37-day base window on a very wide grid.
	l := Compute(today, nil, 0, 500)
	if l.DaysPerCol != 1.0 {
		t.Errorf("days per column = %f, want clamped to 1.0", l.DaysPerCol)
	}
}

func TestBarMinimumLength(t *testing.T) {
	// end before start resolves to a single column.
	items := []*task.Item{child("2026-08-25", "", "2026-08-20", -1, task.StatusActive)}
	l := Compute(today, items, 0, 40)
	if l.Bars[0].Length != 1 {
		t.Errorf("bar length = %d, want 1", l.Bars[0].Length)
	}
}

func TestForcedCompletionFill(t *testing.T) {
	items := []*task.Item{child("2026-08-20", "", "2026-09-10", 30, task.StatusDone)}
	l := Compute(today, items, 0, 40)
	b := l.Bars[0]
	if b.Filled != b.Length {
		t.Errorf("done task filled %d of %d columns, want full", b.Filled, b.Length)
	}
}

func TestPartialProgressFill(t *testing.T) {
	items := []*task.Item{child("2026-08-18", "", "2026-09-24", 50, task.StatusActive)}
	l := Compute(today, items, 0, 37)
	b := l.Bars[0]
	want := int(0.5*float64(b.Length) + 0.5)
	if b.Filled != want {
		t.Errorf("filled = %d, want %d of %d", b.Filled, want, b.Length)
	}
}

func TestTodayMarkerInsideWindow(t *testing.T) {
	l := Compute(today, nil, 0, 40)
	if l.TodayCol < 0 || l.TodayCol >= l.Width {
		t.Fatalf("today column = %d, want inside grid", l.TodayCol)
	}
	// Scroll far into the future: today leaves the window.
	l = Compute(today, nil, 100, 40)
	if l.TodayCol != -1 {
		t.Errorf("today column = %d, want -1 outside window", l.TodayCol)
	}
}

func TestRenderBarGlyphs(t *testing.T) {
	b := Bar{StartCol: 2, Length: 4, Filled: 2}
	got := RenderBar(b, 10, 8)
	want := "  ██░░  │ "
	if got != want {
		t.Errorf("RenderBar = %q, want %q", got, want)
	}
}

func TestRenderBarTodayNotOverwritingBar(t *testing.T) {
	b := Bar{StartCol: 2, Length: 4, Filled: 0}
	// Column 3 is occupied by the bar; the marker must not replace it.
	runes := []rune(RenderBar(b, 10, 3))
	if runes[3] != '░' {
		t.Errorf("cell 3 = %q, want bar glyph preserved", runes[3])
	}
	if strings.ContainsRune(string(runes), '│') {
		t.Errorf("render = %q, want no marker when its cell is occupied", string(runes))
	}
}

func TestMonthHeaderBoundaries(t *testing.T) {
	l := Compute(today, nil, 0, 37)
	// Window 2026-08-18 .. 2026-09-24 at one day per column: August label
	// leads, September appears at the boundary column.
	if !strings.HasPrefix(l.MonthHeader, "Aug") {
		t.Errorf("header = %q, want leading Aug", l.MonthHeader)
	}
	if !strings.Contains(l.MonthHeader, "Sep") {
		t.Errorf("header = %q, want Sep at month boundary", l.MonthHeader)
	}
	if len(l.MonthHeader) != 37 {
		t.Errorf("header width = %d, want 37", len(l.MonthHeader))
	}
}

func TestProjectProgress(t *testing.T) {
	if got := ProjectProgress(nil); got != 0 {
		t.Errorf("empty project progress = %d, want 0", got)
	}
	children := []*task.Item{
		child("", "", "", -1, task.StatusDone),
		child("", "", "", -1, task.StatusArchived),
		child("", "", "", -1, task.StatusActive),
	}
	if got := ProjectProgress(children); got != 66 {
		t.Errorf("progress = %d, want 66", got)
	}
}

func TestStatusCounts(t *testing.T) {
	children := []*task.Item{
		child("", "", "", -1, task.StatusActive),
		child("", "", "", -1, task.StatusActive),
		child("", "", "", -1, task.StatusDone),
	}
	counts := StatusCounts(children)
	if counts[task.StatusActive] != 2 || counts[task.StatusDone] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
