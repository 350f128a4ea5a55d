package calendar

import (
	"fmt"
	"time"
)

// Phase is the selection state of a RangeSelector.
type Phase int

const (
	// AwaitingStart means the next selection begins a new range.
	AwaitingStart Phase = iota
	// AwaitingEnd means the next selection completes the pending range.
	AwaitingEnd
)

// Range is a committed day range within one month view.
type Range struct {
	Month    int `json:"month"`
	Year     int `json:"year"`
	StartDay int `json:"start_day"`
	EndDay   int `json:"end_day"`
}

// RangeSelector is the two-click range picker over a month grid. All
// fields are plain values so selector state can be serialized and restored
// independently of any rendering layer.
type RangeSelector struct {
	Month int   `json:"month"`
	Year  int   `json:"year"`
	Phase Phase `json:"phase"`

	TempStart int `json:"temp_start"`
	TempEnd   int `json:"temp_end"`

	Committed *Range `json:"committed,omitempty"`
}

// NewRangeSelector opens a selector on the given month view.
func NewRangeSelector(month, year int) (*RangeSelector, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	return &RangeSelector{Month: month, Year: year, Phase: AwaitingStart}, nil
}

// Navigate moves the month view without touching the pending selection.
func (s *RangeSelector) Navigate(direction Direction) {
	s.Month, s.Year = NavigateMonth(s.Month, s.Year, direction)
}

// Select handles a tap on a grid cell. Adjacent-month cells are not
// selectable and leave the state untouched. After any selection
// TempStart <= TempEnd holds: picking an earlier day second swaps the
// bounds instead of producing an inverted range.
func (s *RangeSelector) Select(cell Cell) {
	if !cell.InCurrentMonth {
		return
	}

	switch s.Phase {
	case AwaitingStart:
		s.TempStart = cell.Day
		s.TempEnd = cell.Day
		s.Phase = AwaitingEnd
	case AwaitingEnd:
		if cell.Day >= s.TempStart {
			s.TempEnd = cell.Day
		} else {
			s.TempEnd = s.TempStart
			s.TempStart = cell.Day
		}
		s.Phase = AwaitingStart
	}
}

// Apply commits the pending days against the active month view and returns
// a display label. Temp values are kept so reopening the picker shows the
// prior range pre-filled.
func (s *RangeSelector) Apply() (Range, string) {
	committed := Range{
		Month:    s.Month,
		Year:     s.Year,
		StartDay: s.TempStart,
		EndDay:   s.TempEnd,
	}
	s.Committed = &committed
	return committed, committed.Label()
}

// Label formats the range for display, e.g. "3 - 14 Mar 2024".
func (r Range) Label() string {
	month := time.Month(r.Month).String()[:3]
	if r.StartDay == r.EndDay {
		return fmt.Sprintf("%d %s %d", r.StartDay, month, r.Year)
	}
	return fmt.Sprintf("%d - %d %s %d", r.StartDay, r.EndDay, month, r.Year)
}

// Window converts the committed range into an inclusive UTC time window
// suitable for report queries: start of the first day through the last
// instant of the final day.
func (r Range) Window() (time.Time, time.Time) {
	from := time.Date(r.Year, time.Month(r.Month), r.StartDay, 0, 0, 0, 0, time.UTC)
	to := time.Date(r.Year, time.Month(r.Month), r.EndDay, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	return from, to
}
