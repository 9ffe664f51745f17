package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/marketplace-payments/internal/http/middleware"
	"github.com/nurpe/marketplace-payments/internal/metrics"
	"github.com/nurpe/marketplace-payments/internal/model"
	"github.com/nurpe/marketplace-payments/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

var outcomes = map[string]error{
	"not_found":          service.ErrNotFound,
	"already_paid":       service.ErrAlreadyPaid,
	"insufficient_funds": service.ErrInsufficientFunds,
	"cap_exceeded":       service.ErrDepositCapExceeded,
	"permission_denied":  service.ErrPermissionDenied,
	"invalid_input":      service.ErrInvalidInput,
	"tx_failed":          service.ErrTransactionFailed,
}

type Services struct {
	Profiles  *service.ProfileService
	Contracts *service.ContractService
	Jobs      *service.JobService
	Balances  *service.BalanceService
	Admin     *service.AdminService
}

type Handler struct {
	svc Services
	log zerolog.Logger
}

func NewHandler(svc Services, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/profiles", h.listProfiles)

	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/:id", h.getContract)

	protected.GET("/jobs", h.listJobs)
	protected.GET("/jobs/unpaid", h.listUnpaidJobs)
	protected.GET("/jobs/:id/pay", h.payJob)
	protected.POST("/jobs/:id/pay", h.payJob)

	protected.POST("/balances/deposit/:id", h.deposit)

	admin := protected.Group("/admin")
	admin.GET("/best-profession", h.bestProfession)
	admin.GET("/best-clients", h.bestClients)
	admin.GET("/best-clients/export", h.exportBestClients)
	admin.GET("/best-clients/export/pdf", h.exportBestClientsPDF)
}

func (h *Handler) listProfiles(c *gin.Context) {
	profiles, err := h.svc.Profiles.ListProfiles(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing principal"})
		return
	}

	contracts, err := h.svc.Contracts.ListActiveContracts(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing principal"})
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "contract not found"})
		return
	}

	contract, err := h.svc.Contracts.GetContract(c.Request.Context(), principal, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "contract not found"})
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) listJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing principal"})
		return
	}

	jobs, err := h.svc.Jobs.ListJobs(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) listUnpaidJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing principal"})
		return
	}

	jobs, err := h.svc.Jobs.ListUnpaidJobs(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) payJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing principal"})
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "job not found"})
		return
	}

	result, err := h.svc.Jobs.PayJob(c.Request.Context(), principal, id)
	metrics.Payments.WithLabelValues(metrics.Outcome(err, outcomes)).Inc()
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "job not found"})
			return
		}
		h.handleError(c, err)
		return
	}

	h.log.Info().
		Int64("job_id", result.JobID).
		Int64("client_id", result.ClientID).
		Int64("contractor_id", result.ContractorID).
		Str("amount", result.Amount.String()).
		Msg("job paid")
	c.JSON(http.StatusOK, gin.H{"msg": "job paid"})
}

type depositRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

func (h *Handler) deposit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing principal"})
		return
	}

	targetID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid profile id"})
		return
	}

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "amount is required"})
		return
	}

	result, err := h.svc.Balances.Deposit(c.Request.Context(), service.DepositInput{
		Principal: principal,
		TargetID:  targetID,
		Amount:    *req.Amount,
	})
	metrics.Deposits.WithLabelValues(metrics.Outcome(err, outcomes)).Inc()
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info().
		Int64("profile_id", result.ProfileID).
		Str("amount", result.Amount.String()).
		Str("unpaid_total", result.UnpaidTotal.String()).
		Msg("amount deposited")
	c.JSON(http.StatusOK, gin.H{"msg": "amount deposited"})
}

func (h *Handler) bestProfession(c *gin.Context) {
	period, err := parsePeriod(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	profession, err := h.svc.Admin.BestProfession(c.Request.Context(), period)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "no paid jobs in period"})
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profession)
}

func (h *Handler) bestClients(c *gin.Context) {
	input, err := parseBestClients(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	clients, err := h.svc.Admin.BestClients(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "no paid jobs in period"})
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) exportBestClients(c *gin.Context) {
	input, err := parseBestClients(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.svc.Admin.ExportBestClients(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentTypeXLSX, result.Content)
}

func (h *Handler) exportBestClientsPDF(c *gin.Context) {
	input, err := parseBestClients(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.svc.Admin.ExportBestClientsPDF(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentTypePDF, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrDepositCapExceeded),
		errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrTransactionFailed):
		h.log.Warn().Err(err).Msg("transaction aborted")
		c.JSON(http.StatusConflict, gin.H{"msg": "transaction failed, nothing was changed"})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidInput
	}
	return id, nil
}

func parseBestClients(c *gin.Context) (service.BestClientsInput, error) {
	period, err := parsePeriod(c)
	if err != nil {
		return service.BestClientsInput{}, err
	}
	input := service.BestClientsInput{Period: period}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return service.BestClientsInput{}, errInvalidQuery("limit")
		}
		input.Limit = limit
	}
	return input, nil
}

// parsePeriod reads start and end as epoch seconds.
func parsePeriod(c *gin.Context) (model.ReportPeriod, error) {
	start, err := parseEpoch(c.Query("start"))
	if err != nil {
		return model.ReportPeriod{}, errInvalidQuery("start")
	}
	end, err := parseEpoch(c.Query("end"))
	if err != nil {
		return model.ReportPeriod{}, errInvalidQuery("end")
	}
	return model.ReportPeriod{Start: start, End: end}, nil
}

func parseEpoch(raw string) (time.Time, error) {
	seconds, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(seconds, 0).UTC(), nil
}

func errInvalidQuery(name string) error {
	return fmt.Errorf("%w: %s must be an integer", service.ErrInvalidInput, name)
}
