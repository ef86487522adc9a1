// Package integration exercises the whole client stack against an
// in-process stub of the billing API, wired the way the real service
// answers: payment and refund records keyed by id, and a profile endpoint
// that can speak any of its three response shapes.
package integration

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// profileShape selects which of the accepted wire shapes the profile
// endpoint answers with.
type profileShape int

const (
	shapeExistsFlag profileShape = iota // {"exists":true, ...fields} / {"exists":false}
	shapeBareObject                     // raw profile object, no exists marker
)

type stubServer struct {
	mu       sync.Mutex
	payments map[string]map[string]interface{}
	refunds  map[string]map[string]interface{}
	profile  map[string]interface{}
	shape    profileShape

	// lastUpdate records the most recent PUT body per path for assertions.
	lastUpdate map[string]map[string]interface{}
}

func newStubServer() *stubServer {
	return &stubServer{
		payments:   map[string]map[string]interface{}{},
		refunds:    map[string]map[string]interface{}{},
		lastUpdate: map[string]map[string]interface{}{},
	}
}

func (s *stubServer) handler() http.Handler {
	e := echo.New()
	e.HideBanner = true

	e.GET("/api/payments/:id", s.getRecord(s.payments))
	e.PUT("/api/payments/:id", s.putRecord(s.payments))
	e.GET("/api/refunds/:id", s.getRecord(s.refunds))
	e.PUT("/api/refunds/:id", s.putRecord(s.refunds))
	e.GET("/api/profile", s.getProfile)
	e.PUT("/api/profile", s.putProfile)

	return e
}

func (s *stubServer) getRecord(store map[string]map[string]interface{}) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		rec, ok := store[c.Param("id")]
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Record not found"})
		}
		return c.JSON(http.StatusOK, rec)
	}
}

func (s *stubServer) putRecord(store map[string]map[string]interface{}) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body map[string]interface{}
		if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		id := c.Param("id")
		rec, ok := store[id]
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Record not found"})
		}
		for k, v := range body {
			rec[k] = v
		}
		s.lastUpdate[c.Request().URL.Path] = body
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *stubServer) getProfile(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return c.JSON(http.StatusOK, map[string]bool{"exists": false})
	}
	if s.shape == shapeBareObject {
		return c.JSON(http.StatusOK, s.profile)
	}
	out := map[string]interface{}{"exists": true}
	for k, v := range s.profile {
		out[k] = v
	}
	return c.JSON(http.StatusOK, out)
}

func (s *stubServer) putProfile(c echo.Context) error {
	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = body
	s.profile["updatedAt"] = "2024-09-01T12:00:00Z"
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": s.profile,
	})
}
