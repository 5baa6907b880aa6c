package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lixenwraith/bunny-coffee/engine"
)

func health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) economy(c echo.Context) error {
	return c.JSON(http.StatusOK, s.shop.Offers())
}

func (s *Server) world(c echo.Context) error {
	return c.JSON(http.StatusOK, s.shop.Snapshot())
}

func (s *Server) status(c echo.Context) error {
	return c.JSON(http.StatusOK, s.registry.Snapshot())
}

func (s *Server) hire(c echo.Context) error {
	return s.act(c, http.StatusCreated, s.shop.HireEmployee)
}

func (s *Server) buyAppliance(c echo.Context) error {
	return s.act(c, http.StatusCreated, s.shop.BuyAppliance)
}

func (s *Server) upgradeNext(c echo.Context) error {
	return s.act(c, http.StatusOK, s.shop.LevelUpNextAppliance)
}

func (s *Server) upgrade(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appliance index"})
	}
	return s.act(c, http.StatusOK, func() error { return s.shop.LevelUpAppliance(index) })
}

func (s *Server) buyDecoration(c echo.Context) error {
	return s.act(c, http.StatusCreated, s.shop.BuyDecoration)
}

func (s *Server) reset(c echo.Context) error {
	s.opts.Reset()
	return c.NoContent(http.StatusAccepted)
}

// act runs one economy mutation and answers with the refreshed offers
func (s *Server) act(c echo.Context, okStatus int, fn func() error) error {
	if err := fn(); err != nil {
		return c.JSON(statusFor(err), echo.Map{
			"error":  err.Error(),
			"offers": s.shop.Offers(),
		})
	}
	return c.JSON(okStatus, s.shop.Offers())
}

// statusFor maps economy sentinels onto HTTP codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotAffordable):
		return http.StatusPaymentRequired
	case errors.Is(err, engine.ErrCapacity), errors.Is(err, engine.ErrMaxLevel):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidAppliance):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
