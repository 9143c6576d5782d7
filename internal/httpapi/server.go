// Package httpapi exposes the analysis service over HTTP.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/joelkehle/revenue-readiness/internal/service"
)

const maxBodyBytes = 1 << 20

type Options struct {
	Service     *service.Service
	Metrics     http.Handler
	Log         *logrus.Logger
	CORSOrigins []string
}

type Server struct {
	svc *service.Service
}

// NewServer builds the gin router. A nil Metrics handler leaves /metrics
// unrouted.
func NewServer(o Options) http.Handler {
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	s := &Server{svc: o.Service}

	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggerMiddleware(o.Log), RecoveryMiddleware(o.Log))
	r.Use(cors.New(corsConfig(o.CORSOrigins)))

	r.GET("/health", s.handleHealth)
	r.GET("/ready", s.handleReady)
	if o.Metrics != nil {
		r.GET("/metrics", gin.WrapH(o.Metrics))
	}

	v1 := r.Group("/api/v1")
	v1.POST("/analyze", s.handleAnalyze)
	v1.GET("/reports/:id", s.handleGetReport)
	v1.GET("/reports/:id/download", s.handleDownload)
	v1.GET("/projects/:id/compare", s.handleCompare)
	v1.GET("/projects/:id/history", s.handleHistory)
	v1.PUT("/projects/:id/visibility", s.handleVisibility)
	v1.GET("/badge/:slug", s.handleBadge)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func caller(c *gin.Context) service.Caller {
	return service.Caller{
		ClientIP: c.ClientIP(),
		Token:    service.BearerToken(c.GetHeader("Authorization")),
	}
}

func writeJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	writeJSON(c, status, gin.H{
		"ok": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// writeError maps service errors to their status; anything else is a 500.
func writeError(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		if se.Code == service.CodeRateLimited {
			c.Header("Retry-After", "86400")
		}
		writeErrorCode(c, se.Status, se.Code, se.Message)
		return
	}
	writeErrorCode(c, http.StatusInternalServerError, service.CodeInternal, err.Error())
}

// parseVersion reads an optional positive version number; absent is 0.
func parseVersion(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, true
	}
	v, err := strconv.Atoi(value)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}
