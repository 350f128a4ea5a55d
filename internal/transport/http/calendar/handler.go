package calendar

import (
	"strconv"

	"github.com/labstack/echo/v4"

	cal "github.com/Vawe4321/vendor-core/internal/calendar"
	"github.com/Vawe4321/vendor-core/internal/presentation/http/response"
	"github.com/Vawe4321/vendor-core/pkg/errorbank"
)

// Handler serves month grids and month navigation for the report date
// picker.
type Handler struct{}

// NewHandler constructs a calendar Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/calendar")
	g.GET("/grid", h.grid)
	g.GET("/navigate", h.navigate)
}

func (h *Handler) grid(c echo.Context) error {
	b := response.New(c)

	month, year, err := monthYearFromQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	grid, err := cal.BuildGrid(month, year)
	if err != nil {
		return b.WithError(errorbank.BadRequest(err.Error())).Build()
	}

	return b.WithData(grid).WithMeta("month", month).WithMeta("year", year).Build()
}

func (h *Handler) navigate(c echo.Context) error {
	b := response.New(c)

	month, year, err := monthYearFromQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	if month < 1 || month > 12 {
		return b.WithError(errorbank.BadRequest(cal.ErrInvalidMonth.Error())).Build()
	}

	direction := cal.DirectionNext
	switch c.QueryParam("direction") {
	case "next":
	case "prev":
		direction = cal.DirectionPrev
	default:
		return b.WithError(errorbank.BadRequest("direction must be next or prev")).Build()
	}

	month, year = cal.NavigateMonth(month, year, direction)
	return b.WithData(map[string]int{"month": month, "year": year}).Build()
}

func monthYearFromQuery(c echo.Context) (int, int, error) {
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return 0, 0, errorbank.BadRequest("invalid month", errorbank.WithCause(err))
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return 0, 0, errorbank.BadRequest("invalid year", errorbank.WithCause(err))
	}
	return month, year, nil
}
