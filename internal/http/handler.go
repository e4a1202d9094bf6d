package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/ledger-service/internal/http/middleware"
	"github.com/nurpe/ledger-service/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	ledger   *service.LedgerService
	payments *service.PaymentService
	reports  *service.ReportService
	receipts *service.ReceiptService
	log      zerolog.Logger
}

func NewHandler(
	ledger *service.LedgerService,
	payments *service.PaymentService,
	reports *service.ReportService,
	receipts *service.ReceiptService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		ledger:   ledger,
		payments: payments,
		reports:  reports,
		receipts: receipts,
		log:      log.With().Str("component", "http").Logger(),
	}
}

// Middlewares groups the identity middlewares. ClientFromPath resolves the
// client from the :userId path parameter.
type Middlewares struct {
	Auth           gin.HandlerFunc
	OptionalAuth   gin.HandlerFunc
	RequireClient  gin.HandlerFunc
	ClientFromPath gin.HandlerFunc
}

func (h *Handler) Register(router *gin.Engine, mw Middlewares) {
	router.GET("/contracts/:id", mw.Auth, h.getContract)
	router.GET("/contracts", mw.Auth, h.listContracts)
	router.GET("/jobs/unpaid", mw.Auth, h.listUnpaidJobs)
	router.GET("/jobs/:job_id/receipt", mw.Auth, h.jobReceipt)
	router.POST("/jobs/:job_id/pay", mw.Auth, mw.RequireClient, h.payJob)
	router.POST("/balances/deposit/:userId", mw.OptionalAuth, mw.ClientFromPath, h.deposit)

	admin := router.Group("/admin")
	admin.GET("/best-profession", h.bestProfession)
	admin.GET("/best-profession/export", h.exportProfessions)
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	contractID, ok := pathID(c, "id")
	if !ok {
		return
	}

	contract, err := h.ledger.GetContract(c.Request.Context(), principal, contractID)
	if err != nil {
		h.handleError(c, err, "get contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	contracts, err := h.ledger.ListContracts(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err, "list contracts")
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) listUnpaidJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	jobs, err := h.ledger.ListUnpaidJobs(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err, "list unpaid jobs")
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) payJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	jobID, ok := pathID(c, "job_id")
	if !ok {
		return
	}

	result, err := h.payments.PayJob(c.Request.Context(), principal, jobID)
	if err != nil {
		h.handleError(c, err, "pay job")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) deposit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	result, err := h.payments.Deposit(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err, "deposit")
		return
	}
	c.JSON(http.StatusOK, result.PaymentResult)
}

func (h *Handler) bestProfession(c *gin.Context) {
	h.logIgnoredWindow(c)

	best, err := h.reports.BestProfession(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "best profession")
		return
	}
	c.JSON(http.StatusOK, best)
}

func (h *Handler) exportProfessions(c *gin.Context) {
	h.logIgnoredWindow(c)

	result, err := h.reports.ExportProfessionReport(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "export professions")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}

func (h *Handler) jobReceipt(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	jobID, ok := pathID(c, "job_id")
	if !ok {
		return
	}

	result, err := h.receipts.GenerateReceipt(c.Request.Context(), principal, jobID)
	if err != nil {
		h.handleError(c, err, "job receipt")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

// logIgnoredWindow notes start/end query parameters. The report window is
// fixed by configuration and they have no effect.
func (h *Handler) logIgnoredWindow(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" && end == "" {
		return
	}
	h.log.Debug().Str("start", start).Str("end", end).Msg("report window parameters ignored")
}

func (h *Handler) handleError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.AbortWithStatus(http.StatusUnauthorized)
	case errors.Is(err, service.ErrNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	default:
		h.log.Error().Err(err).Str("op", op).Msg("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathID parses a uuid path parameter. A malformed id cannot match any
// record, so it is answered like a missing one.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}
