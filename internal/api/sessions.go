package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"statsdash/internal/dashboard"
)

type sessionResponse struct {
	ID    string          `json:"id"`
	Views dashboard.Views `json:"views"`
}

func (h *Handler) session(c echo.Context) (string, *dashboard.Session, error) {
	id := c.Param("id")
	s, ok := h.sessions.Get(id)
	if !ok {
		return id, nil, echo.NewHTTPError(http.StatusNotFound, "unknown session")
	}
	return id, s, nil
}

func (h *Handler) CreateSession(c echo.Context) error {
	store, err := h.store(c)
	if err != nil {
		return err
	}
	s := dashboard.NewSession(h.opts)
	id := h.sessions.Create(s)
	return c.JSON(http.StatusCreated, sessionResponse{ID: id, Views: s.Render(store)})
}

func (h *Handler) GetSession(c echo.Context) error {
	id, s, err := h.session(c)
	if err != nil {
		return err
	}
	store, err := h.store(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{ID: id, Views: s.Render(store)})
}

// PostEvent applies one event and answers with the re-derived views.
func (h *Handler) PostEvent(c echo.Context) error {
	id, s, err := h.session(c)
	if err != nil {
		return err
	}
	var ev dashboard.Event
	if err := c.Bind(&ev); err != nil {
		return err
	}
	if err := s.Update(ev); err != nil {
		if errors.Is(err, dashboard.ErrInvalidEvent) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	store, err := h.store(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{ID: id, Views: s.Render(store)})
}

func (h *Handler) DeleteSession(c echo.Context) error {
	if !h.sessions.Delete(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown session")
	}
	return c.NoContent(http.StatusNoContent)
}

// streamTouchInterval is how often an open stream keeps its session from
// expiring.
var streamTouchInterval = 15 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type selectionMessage struct {
	Selection string `json:"selection"`
	Previous  string `json:"previous"`
}

// StreamSelection pushes every selection change of the session to the
// connected view until either side closes or the session is removed.
func (h *Handler) StreamSelection(c echo.Context) error {
	id, s, err := h.session(c)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	changes, cancel := s.Selection().Subscribe()
	defer cancel()

	// The client only sends control frames; reading surfaces the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(selectionMessage{Selection: s.Selection().Current().State()}); err != nil {
		return nil
	}
	touch := time.NewTicker(streamTouchInterval)
	defer touch.Stop()
	for {
		select {
		case <-touch.C:
			if _, ok := h.sessions.Get(id); !ok {
				return nil
			}
		case <-closed:
			log.Debugf("session %s: stream closed", id)
			return nil
		case <-c.Request().Context().Done():
			return nil
		case ch, ok := <-changes:
			if !ok {
				log.Debugf("session %s: removed, closing stream", id)
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session removed")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
				return nil
			}
			msg := selectionMessage{Selection: ch.Current.State(), Previous: ch.Previous.State()}
			if err := conn.WriteJSON(msg); err != nil {
				log.Debugf("session %s: stream write: %v", id, err)
				return nil
			}
		}
	}
}
