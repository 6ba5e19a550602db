package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"statsdash/internal/dashboard"
	"statsdash/internal/engine"
	"statsdash/internal/selection"
)

type Handler struct {
	cache    *engine.Cache
	sessions *selection.Registry[*dashboard.Session]
	opts     dashboard.Options
}

// NewHandler serves sessions from the registry; sessions it evicts have
// their streams closed.
func NewHandler(cache *engine.Cache, sessions *selection.Registry[*dashboard.Session], opts dashboard.Options) *Handler {
	sessions.OnEvict(func(s *dashboard.Session) { s.Close() })
	return &Handler{cache: cache, sessions: sessions, opts: opts}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.GetHealth)
	api.GET("/years", h.GetYears)
	api.GET("/combined", h.GetCombined)
	api.GET("/heatmap", h.GetHeatmap)
	api.GET("/participation", h.GetParticipation)
	api.GET("/maps", h.GetMaps)

	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/:id", h.GetSession)
	api.POST("/sessions/:id/events", h.PostEvent)
	api.DELETE("/sessions/:id", h.DeleteSession)
	api.GET("/sessions/:id/stream", h.StreamSelection)
}

// --- HANDLERS ---

// store returns the loaded tables, loading them on first use.
func (h *Handler) store(c echo.Context) (*engine.Store, error) {
	s, err := h.cache.Get(c.Request().Context())
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "datasets unavailable").SetInternal(err)
	}
	return s, nil
}

func (h *Handler) GetHealth(c echo.Context) error {
	s, err := h.cache.Peek()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	}

	resp := map[string]interface{}{
		"status":   "ok",
		"loadedAt": s.LoadedAt.Format(time.RFC3339),
	}
	if s.IncomeErr != nil || s.LaborErr != nil {
		resp["status"] = "degraded"
	}
	if s.IncomeErr != nil {
		resp["income"] = s.IncomeErr.Error()
	}
	if s.LaborErr != nil {
		resp["labor"] = s.LaborErr.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetYears(c echo.Context) error {
	s, err := h.store(c)
	if err != nil {
		return err
	}
	resp := map[string]interface{}{}
	if t, err := s.IncomeTable(); err == nil {
		resp["income"] = engine.AvailableYears(t, engine.FieldDate)
	}
	if t, err := s.LaborTable(); err == nil {
		resp["labor"] = engine.AvailableYears(t, engine.FieldDate)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetCombined answers with the scatter and diverging pair without any
// selection. 404 carries the available years.
func (h *Handler) GetCombined(c echo.Context) error {
	year := h.opts.DivergingYear
	if err := echo.QueryParamsBinder(c).Int("year", &year).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "year must be an integer")
	}
	s, err := h.store(c)
	if err != nil {
		return err
	}

	v := dashboard.RenderCombined(s, h.opts.ScatterYear, year, selection.None)
	switch {
	case v.NotAvailable != nil:
		return c.JSON(http.StatusNotFound, v.NotAvailable)
	case v.Error != "" && v.Diverging == nil:
		return c.JSON(http.StatusServiceUnavailable, v)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) GetHeatmap(c echo.Context) error {
	sex, err := sexParam(c)
	if err != nil {
		return err
	}
	s, err := h.store(c)
	if err != nil {
		return err
	}
	labor, err := s.LaborTable()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, dashboard.RenderHeatmap(labor, sex))
}

func (h *Handler) GetParticipation(c echo.Context) error {
	sex, err := sexParam(c)
	if err != nil {
		return err
	}
	controls := dashboard.Controls{Sex: sex}
	if controls.BrushFrom, err = dateParam(c, "from"); err != nil {
		return err
	}
	if controls.BrushTo, err = dateParam(c, "to"); err != nil {
		return err
	}
	s, err := h.store(c)
	if err != nil {
		return err
	}
	labor, err := s.LaborTable()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, dashboard.RenderParticipation(labor, controls))
}

func (h *Handler) GetMaps(c echo.Context) error {
	years := h.opts.MapYears
	err := echo.QueryParamsBinder(c).
		Int("year1", &years[0]).
		Int("year2", &years[1]).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "year1 and year2 must be integers")
	}
	s, err := h.store(c)
	if err != nil {
		return err
	}

	views := make([]dashboard.ChoroplethView, 0, 4)
	for _, y := range years {
		views = append(views,
			dashboard.RenderChoropleth(s, engine.MeasureIncome, y, selection.None, h.opts.TopoURL),
			dashboard.RenderChoropleth(s, engine.MeasureUnemployment, y, selection.None, h.opts.TopoURL),
		)
	}
	return c.JSON(http.StatusOK, views)
}

func sexParam(c echo.Context) (string, error) {
	sex := c.QueryParam("sex")
	if sex == "" {
		return engine.SexBoth, nil
	}
	if !engine.ValidSex(sex) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "sex must be one of both, female, male")
	}
	return sex, nil
}

func dateParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := engine.ParseDate(raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" must be a date (YYYY-MM-DD)")
	}
	return t, nil
}
