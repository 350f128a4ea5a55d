// Package calendar builds month display grids and drives the two-click
// date-range selection used by report filters.
package calendar

import (
	"errors"
	"time"
)

// GridSize is the fixed cell count of a month grid: six full weeks, so
// layouts never reflow between months.
const GridSize = 42

// ErrInvalidMonth is returned for a month outside 1..12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Cell is one slot of the month grid. Cells padding out the leading and
// trailing weeks belong to the adjacent months.
type Cell struct {
	Day            int  `json:"day"`
	InCurrentMonth bool `json:"in_current_month"`
}

// Direction selects where NavigateMonth moves.
type Direction int

const (
	DirectionPrev Direction = iota
	DirectionNext
)

// DaysInMonth returns the day count of the month, with Gregorian leap
// handling for February.
func DaysInMonth(month, year int) (int, error) {
	if month < 1 || month > 12 {
		return 0, ErrInvalidMonth
	}
	switch month {
	case 4, 6, 9, 11:
		return 30, nil
	case 2:
		if isLeapYear(year) {
			return 29, nil
		}
		return 28, nil
	default:
		return 31, nil
	}
}

func isLeapYear(year int) bool {
	if year%400 == 0 {
		return true
	}
	if year%100 == 0 {
		return false
	}
	return year%4 == 0
}

// BuildGrid produces the 42-cell grid for the month: leading days from the
// end of the previous month, every day of the current month, then padding
// from the next month.
func BuildGrid(month, year int) ([GridSize]Cell, error) {
	var grid [GridSize]Cell

	days, err := DaysInMonth(month, year)
	if err != nil {
		return grid, err
	}

	prevMonth, prevYear := NavigateMonth(month, year, DirectionPrev)
	prevDays, _ := DaysInMonth(prevMonth, prevYear)

	// Weekday of the 1st, Sunday = 0.
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	leading := int(first.Weekday())

	idx := 0
	for i := 0; i < leading; i++ {
		grid[idx] = Cell{Day: prevDays - leading + 1 + i}
		idx++
	}
	for day := 1; day <= days; day++ {
		grid[idx] = Cell{Day: day, InCurrentMonth: true}
		idx++
	}
	for day := 1; idx < GridSize; day++ {
		grid[idx] = Cell{Day: day}
		idx++
	}

	return grid, nil
}

// NavigateMonth steps one month in the given direction, carrying the year
// across the December/January boundary.
func NavigateMonth(month, year int, direction Direction) (int, int) {
	if direction == DirectionNext {
		if month == 12 {
			return 1, year + 1
		}
		return month + 1, year
	}
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}
