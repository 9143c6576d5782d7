package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joelkehle/revenue-readiness/internal/revenue"
	"github.com/joelkehle/revenue-readiness/internal/service"
)

func (s *Server) handleHealth(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"ok": true, "status": "healthy", "service": "revenue-api"})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	if err := s.svc.Ready(ctx); err != nil {
		writeJSON(c, http.StatusServiceUnavailable, gin.H{
			"ok":     false,
			"status": "not ready",
			"checks": gin.H{"database": "error: " + err.Error()},
		})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true, "status": "ready", "checks": gin.H{"database": "ok"}})
}

type analyzeResponse struct {
	OK bool `json:"ok"`
	service.AnalyzeResult
}

// analyzeInput mirrors revenue.Input with every field required to be
// present. Empty strings and empty lists are accepted.
type analyzeInput struct {
	ProductName     *string                 `json:"product_name" binding:"required"`
	Description     *string                 `json:"description" binding:"required"`
	TargetUserGuess *string                 `json:"target_user_guess" binding:"required"`
	PricingModel    *string                 `json:"pricing_model" binding:"required"`
	MonthlyPrice    *float64                `json:"monthly_price" binding:"required"`
	WebsiteURL      *string                 `json:"website_url" binding:"required"`
	FeatureList     *[]string               `json:"feature_list" binding:"required"`
	Competitors     *[]string               `json:"competitors" binding:"required"`
	ScrapedWebsite  *revenue.ScrapedWebsite `json:"scraped_website"`
}

type analyzeRequest struct {
	Input     *analyzeInput `json:"input" binding:"required"`
	ProjectID string        `json:"project_id"`
}

func (r analyzeRequest) toService() service.AnalyzeRequest {
	in := r.Input
	return service.AnalyzeRequest{
		ProjectID: r.ProjectID,
		Input: revenue.Input{
			ProductName:     *in.ProductName,
			Description:     *in.Description,
			TargetUserGuess: *in.TargetUserGuess,
			PricingModel:    *in.PricingModel,
			MonthlyPrice:    *in.MonthlyPrice,
			WebsiteURL:      *in.WebsiteURL,
			FeatureList:     *in.FeatureList,
			Competitors:     *in.Competitors,
			ScrapedWebsite:  in.ScrapedWebsite,
		},
	}
}

func (s *Server) handleAnalyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, service.CodeValidation, "invalid request body: "+err.Error())
		return
	}
	res, err := s.svc.Analyze(c.Request.Context(), caller(c), req.toService())
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, analyzeResponse{OK: true, AnalyzeResult: res})
}

type reportResponse struct {
	OK bool `json:"ok"`
	service.ReportView
}

func (s *Server) handleGetReport(c *gin.Context) {
	v, err := s.svc.GetReport(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, reportResponse{OK: true, ReportView: v})
}

func (s *Server) handleDownload(c *gin.Context) {
	format := service.Format(c.DefaultQuery("format", string(service.FormatJSON)))
	d, err := s.svc.Download(c.Request.Context(), caller(c), c.Param("id"), format)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, d.Filename))
	c.Data(http.StatusOK, d.ContentType, d.Body)
}

func (s *Server) handleCompare(c *gin.Context) {
	from, okFrom := parseVersion(c.Query("from"))
	to, okTo := parseVersion(c.Query("to"))
	if !okFrom || !okTo {
		writeErrorCode(c, http.StatusBadRequest, service.CodeValidation, "from and to must be positive version numbers")
		return
	}
	cmp, err := s.svc.CompareVersions(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true, "comparison": cmp})
}

type historyResponse struct {
	OK bool `json:"ok"`
	service.History
}

func (s *Server) handleHistory(c *gin.Context) {
	h, err := s.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, historyResponse{OK: true, History: h})
}

func (s *Server) handleVisibility(c *gin.Context) {
	var req struct {
		Public *bool `json:"public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Public == nil {
		writeErrorCode(c, http.StatusBadRequest, service.CodeValidation, "body must be {\"public\": true|false}")
		return
	}
	if err := s.svc.SetVisibility(c.Request.Context(), caller(c), c.Param("id"), *req.Public); err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true, "project_id": c.Param("id"), "public": *req.Public})
}

func (s *Server) handleBadge(c *gin.Context) {
	svg, err := s.svc.Badge(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}
