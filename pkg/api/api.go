// Package api serves the DES model over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cycloud0203/cvsd/pkg/des"
	"github.com/cycloud0203/cvsd/pkg/log"
	"github.com/cycloud0203/cvsd/pkg/trace"
	"github.com/cycloud0203/cvsd/pkg/vector"
)

type Server struct {
	Api *echo.Echo
}

type BlockRequest struct {
	Key     string `json:"key"`
	Data    string `json:"data"`
	Decrypt bool   `json:"decrypt,omitempty"`
}

type BlockResponse struct {
	Key    string `json:"key"`
	Data   string `json:"data"`
	Result string `json:"result"`
}

type RoundKeysResponse struct {
	Key      string   `json:"key"`
	Reversed bool     `json:"reversed"`
	Subkeys  []string `json:"subkeys"`
}

type RoundJSON struct {
	Subkey string `json:"subkey"`
	F      string `json:"f"`
	L      string `json:"l"`
	R      string `json:"r"`
}

type TraceResponse struct {
	Key      string      `json:"key"`
	Input    string      `json:"input"`
	Decrypt  bool        `json:"decrypt"`
	Permuted string      `json:"permuted"`
	L0       string      `json:"l0"`
	R0       string      `json:"r0"`
	Rounds   []RoundJSON `json:"rounds"`
	PreFP    string      `json:"pre_fp"`
	Output   string      `json:"output"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New() *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s := &Server{Api: e}

	e.Use(requestLogger)
	e.GET("/healthz", s.Health)
	v1 := e.Group("/v1")
	v1.POST("/encrypt", s.Encrypt)
	v1.POST("/decrypt", s.Decrypt)
	v1.GET("/roundkeys", s.RoundKeys)
	v1.POST("/trace", s.Trace)
	v1.POST("/trace.svg", s.TraceSVG)
	return s
}

// Start blocks serving on addr until Shutdown.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("api listening")
	if err := s.Api.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Api.Shutdown(ctx)
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		log.Debug().
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Int("status", c.Response().Status).
			Dur("took", time.Since(start)).
			Err(err).
			Msg("request")
		return err
	}
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func parseBlock(c echo.Context) (key, data uint64, req BlockRequest, err error) {
	if err = c.Bind(&req); err != nil {
		return 0, 0, req, fmt.Errorf("invalid request body: %w", err)
	}
	if key, err = vector.ParseHex64(req.Key); err != nil {
		return 0, 0, req, fmt.Errorf("key: %w", err)
	}
	if data, err = vector.ParseHex64(req.Data); err != nil {
		return 0, 0, req, fmt.Errorf("data: %w", err)
	}
	return key, data, req, nil
}

func (s *Server) crypt(c echo.Context, decrypt bool) error {
	key, data, _, err := parseBlock(c)
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(http.StatusOK, BlockResponse{
		Key:    hex64(key),
		Data:   hex64(data),
		Result: hex64(des.Crypt(data, key, decrypt)),
	})
}

func (s *Server) Encrypt(c echo.Context) error { return s.crypt(c, false) }
func (s *Server) Decrypt(c echo.Context) error { return s.crypt(c, true) }

func (s *Server) RoundKeys(c echo.Context) error {
	key, err := vector.ParseHex64(c.QueryParam("key"))
	if err != nil {
		return badRequest(c, fmt.Errorf("key: %w", err))
	}
	var reversed bool
	if q := c.QueryParam("reversed"); q != "" {
		if reversed, err = strconv.ParseBool(q); err != nil {
			return badRequest(c, fmt.Errorf("reversed: %w", err))
		}
	}
	rk := des.DeriveRoundKeys(key, reversed)
	res := RoundKeysResponse{Key: hex64(key), Reversed: reversed, Subkeys: make([]string, 0, len(rk))}
	for _, k := range rk {
		res.Subkeys = append(res.Subkeys, fmt.Sprintf("%012X", k))
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) Trace(c echo.Context) error {
	key, data, req, err := parseBlock(c)
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(http.StatusOK, traceJSON(des.CryptTrace(data, key, req.Decrypt)))
}

func (s *Server) TraceSVG(c echo.Context) error {
	key, data, req, err := parseBlock(c)
	if err != nil {
		return badRequest(c, err)
	}
	svg, err := trace.SVG(c.Request().Context(), des.CryptTrace(data, key, req.Decrypt))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", svg)
}

func traceJSON(t *des.Trace) TraceResponse {
	res := TraceResponse{
		Key:      hex64(t.Key),
		Input:    hex64(t.Input),
		Decrypt:  t.Decrypt,
		Permuted: hex64(t.Permuted),
		L0:       hex32(t.L0),
		R0:       hex32(t.R0),
		PreFP:    hex64(t.PreFP),
		Output:   hex64(t.Output),
	}
	for _, rd := range t.Rounds {
		res.Rounds = append(res.Rounds, RoundJSON{
			Subkey: fmt.Sprintf("%012X", rd.Subkey),
			F:      hex32(rd.F),
			L:      hex32(rd.L),
			R:      hex32(rd.R),
		})
	}
	return res
}

func hex64(v uint64) string { return fmt.Sprintf("%016X", v) }
func hex32(v uint32) string { return fmt.Sprintf("%08X", v) }
