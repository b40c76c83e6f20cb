package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/bitsctl/internal/auth"
	"github.com/danmuck/bitsctl/internal/buildinfo"
	"github.com/danmuck/bitsctl/internal/observability"
	"github.com/danmuck/bitsctl/internal/protocol"
	"github.com/danmuck/bitsctl/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type decodeRequest struct {
	Hex string `json:"hex" binding:"required"`
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": buildinfo.Version,
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": buildinfo.Version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	if s.token != "" {
		v1.Use(auth.Middleware(auth.StaticToken{Token: s.token}))
	}
	v1.POST("/decode", s.handleDecode)
}

func (s *Server) handleDecode(c *gin.Context) {
	limit := int64(s.svc.Limits().MaxHexDigits) + 1024
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	var req decodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := s.svc.Decode(req.Hex)
	if err != nil {
		c.JSON(statusFor(err), gin.H{
			"error":   err.Error(),
			"outcome": service.Outcome(err),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, protocol.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case service.Outcome(err) == observability.OutcomeBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
