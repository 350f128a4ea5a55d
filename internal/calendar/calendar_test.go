package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCurrent(grid [GridSize]Cell) int {
	var n int
	for _, cell := range grid {
		if cell.InCurrentMonth {
			n++
		}
	}
	return n
}

func TestBuildGridAlwaysFortyTwoCells(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		for month := 1; month <= 12; month++ {
			grid, err := BuildGrid(month, year)
			require.NoError(t, err)
			assert.Len(t, grid, GridSize)

			days, err := DaysInMonth(month, year)
			require.NoError(t, err)
			assert.Equal(t, days, countCurrent(grid), "month %d/%d", month, year)
		}
	}
}

func TestBuildGridLayout(t *testing.T) {
	// March 2024 starts on a Friday (weekday 5).
	grid, err := BuildGrid(3, 2024)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.False(t, grid[i].InCurrentMonth)
	}
	// Leading cells come from the end of February 2024 (29 days).
	assert.Equal(t, 25, grid[0].Day)
	assert.Equal(t, 29, grid[4].Day)

	assert.Equal(t, Cell{Day: 1, InCurrentMonth: true}, grid[5])
	assert.Equal(t, Cell{Day: 31, InCurrentMonth: true}, grid[35])
	assert.Equal(t, Cell{Day: 1, InCurrentMonth: false}, grid[36])
	assert.Equal(t, Cell{Day: 6, InCurrentMonth: false}, grid[41])
}

func TestLeapYearFebruary(t *testing.T) {
	grid, err := BuildGrid(2, 2024)
	require.NoError(t, err)
	assert.Equal(t, 29, countCurrent(grid))

	grid, err = BuildGrid(2, 2023)
	require.NoError(t, err)
	assert.Equal(t, 28, countCurrent(grid))

	// Century rules.
	days, err := DaysInMonth(2, 1900)
	require.NoError(t, err)
	assert.Equal(t, 28, days)
	days, err = DaysInMonth(2, 2000)
	require.NoError(t, err)
	assert.Equal(t, 29, days)
}

func TestBuildGridInvalidMonth(t *testing.T) {
	_, err := BuildGrid(0, 2024)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = BuildGrid(13, 2024)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestNavigateMonthWraparound(t *testing.T) {
	month, year := NavigateMonth(12, 2024, DirectionNext)
	assert.Equal(t, 1, month)
	assert.Equal(t, 2025, year)

	month, year = NavigateMonth(1, 2024, DirectionPrev)
	assert.Equal(t, 12, month)
	assert.Equal(t, 2023, year)

	month, year = NavigateMonth(6, 2024, DirectionNext)
	assert.Equal(t, 7, month)
	assert.Equal(t, 2024, year)
}

func TestRangeSelectorSwapIdempotence(t *testing.T) {
	forward, err := NewRangeSelector(3, 2024)
	require.NoError(t, err)
	forward.Select(Cell{Day: 10, InCurrentMonth: true})
	forward.Select(Cell{Day: 20, InCurrentMonth: true})

	backward, err := NewRangeSelector(3, 2024)
	require.NoError(t, err)
	backward.Select(Cell{Day: 20, InCurrentMonth: true})
	backward.Select(Cell{Day: 10, InCurrentMonth: true})

	assert.Equal(t, 10, forward.TempStart)
	assert.Equal(t, 20, forward.TempEnd)
	assert.Equal(t, forward.TempStart, backward.TempStart)
	assert.Equal(t, forward.TempEnd, backward.TempEnd)
	assert.Equal(t, AwaitingStart, backward.Phase)
}

func TestRangeSelectorSingleDay(t *testing.T) {
	sel, err := NewRangeSelector(6, 2024)
	require.NoError(t, err)

	sel.Select(Cell{Day: 7, InCurrentMonth: true})
	assert.Equal(t, 7, sel.TempStart)
	assert.Equal(t, 7, sel.TempEnd)
	assert.Equal(t, AwaitingEnd, sel.Phase)

	committed, label := sel.Apply()
	assert.Equal(t, Range{Month: 6, Year: 2024, StartDay: 7, EndDay: 7}, committed)
	assert.Equal(t, "7 Jun 2024", label)
}

func TestRangeSelectorIgnoresAdjacentMonthCells(t *testing.T) {
	sel, err := NewRangeSelector(3, 2024)
	require.NoError(t, err)

	sel.Select(Cell{Day: 28, InCurrentMonth: false})
	assert.Equal(t, AwaitingStart, sel.Phase)
	assert.Zero(t, sel.TempStart)

	sel.Select(Cell{Day: 5, InCurrentMonth: true})
	sel.Select(Cell{Day: 2, InCurrentMonth: false})
	assert.Equal(t, 5, sel.TempStart)
	assert.Equal(t, 5, sel.TempEnd)
	assert.Equal(t, AwaitingEnd, sel.Phase)
}

func TestApplyKeepsTempForReopen(t *testing.T) {
	sel, err := NewRangeSelector(3, 2024)
	require.NoError(t, err)
	sel.Select(Cell{Day: 3, InCurrentMonth: true})
	sel.Select(Cell{Day: 14, InCurrentMonth: true})

	committed, label := sel.Apply()
	assert.Equal(t, "3 - 14 Mar 2024", label)
	require.NotNil(t, sel.Committed)
	assert.Equal(t, committed, *sel.Committed)

	// The picker reopens with the prior range still staged.
	assert.Equal(t, 3, sel.TempStart)
	assert.Equal(t, 14, sel.TempEnd)
}

func TestRangeWindow(t *testing.T) {
	r := Range{Month: 3, Year: 2024, StartDay: 3, EndDay: 14}
	from, to := r.Window()

	assert.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.March, to.Month())
	assert.Equal(t, 14, to.Day())
	assert.True(t, to.After(from))
	assert.True(t, to.Before(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)))
}
