package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/apperrors"
	portssvc "github.com/bharatbooks/gst_ledger_app/internal/core/ports/services"
	"github.com/bharatbooks/gst_ledger_app/internal/dto"
	"github.com/bharatbooks/gst_ledger_app/internal/middleware"
	"github.com/bharatbooks/gst_ledger_app/internal/utils/words"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests related to ledger accounts.
type ledgerHandler struct {
	ledgerService    portssvc.LedgerSvcFacade
	reportingService portssvc.ReportingSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade, rs portssvc.ReportingSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService:    ls,
		reportingService: rs,
	}
}

// registerLedgerRoutes registers routes related to ledger accounts.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, reportingService portssvc.ReportingSvcFacade) {
	h := newLedgerHandler(ledgerService, reportingService)

	ledgers := rg.Group("/ledgers")
	{
		ledgers.POST("", h.createLedger)
		ledgers.GET("", h.listLedgers)
		ledgers.GET("/:id", h.getLedger)
		ledgers.PUT("/:id", h.updateLedger)
		ledgers.DELETE("/:id", h.deactivateLedger)
		ledgers.GET("/:id/statement", h.getStatement)
	}
}

// createLedger godoc
// @Summary Create a new ledger account
// @Description Creates a ledger in one of the five account groups. The debit/credit nature is derived from the group.
// @Tags ledgers
// @Accept json
// @Produce json
// @Param ledger body dto.CreateLedgerRequest true "Ledger details"
// @Success 201 {object} dto.LedgerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledgers [post]
func (h *ledgerHandler) createLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	ledger, err := h.ledgerService.CreateLedger(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to create ledger", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create ledger"})
		}
		return
	}

	logger.Info("Ledger created", slog.String("ledger_id", ledger.LedgerID))
	c.JSON(http.StatusCreated, dto.ToLedgerResponse(ledger))
}

// getLedger godoc
// @Summary Get a ledger by ID
// @Description Retrieves a ledger with its current balance resolved to a Dr/Cr side.
// @Tags ledgers
// @Produce json
// @Param id path string true "Ledger ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledgers/{id} [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("id")

	ledger, err := h.ledgerService.GetLedgerByID(c.Request.Context(), ledgerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Ledger not found"})
			return
		}
		logger.Error("Failed to retrieve ledger", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve ledger"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(ledger))
}

// listLedgers godoc
// @Summary List ledgers
// @Description Lists ledgers ordered by code. Deactivated ledgers are hidden unless includeInactive=true.
// @Tags ledgers
// @Produce json
// @Param includeInactive query bool false "Include deactivated ledgers"
// @Success 200 {array} dto.LedgerResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledgers [get]
func (h *ledgerHandler) listLedgers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))

	ledgers, err := h.ledgerService.ListLedgers(c.Request.Context(), includeInactive)
	if err != nil {
		logger.Error("Failed to list ledgers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list ledgers"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListLedgerResponse(ledgers))
}

// updateLedger godoc
// @Summary Update a ledger
// @Description Updates the ledger's descriptive fields. Opening balance edits are rejected once the ledger has postings.
// @Tags ledgers
// @Accept json
// @Produce json
// @Param id path string true "Ledger ID"
// @Param ledger body dto.UpdateLedgerRequest true "Fields to update"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledgers/{id} [put]
func (h *ledgerHandler) updateLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("id")

	var req dto.UpdateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	ledger, err := h.ledgerService.UpdateLedger(c.Request.Context(), ledgerID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Ledger not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to update ledger", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update ledger"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(ledger))
}

// deactivateLedger godoc
// @Summary Deactivate a ledger
// @Description Soft-deactivates a ledger. Ledgers referenced by postings are never deleted; a deactivated ledger cannot appear on new vouchers.
// @Tags ledgers
// @Produce json
// @Param id path string true "Ledger ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledgers/{id} [delete]
func (h *ledgerHandler) deactivateLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.ledgerService.DeactivateLedger(c.Request.Context(), ledgerID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Ledger not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to deactivate ledger", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to deactivate ledger"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// getStatement godoc
// @Summary Get a ledger statement
// @Description Returns the ledger's postings over a period with per-row running balances and opening/closing figures.
// @Tags ledgers
// @Produce json
// @Param id path string true "Ledger ID"
// @Param from query string true "Period start (RFC3339 date)"
// @Param to query string true "Period end (RFC3339 date)"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledgers/{id}/statement [get]
func (h *ledgerHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("id")

	from, to, err := parsePeriod(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	statement, err := h.reportingService.LedgerStatement(c.Request.Context(), ledgerID, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Ledger not found"})
			return
		}
		logger.Error("Failed to build statement", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build statement"})
		return
	}

	resp := dto.ToStatementResponse(statement)
	if inWords, werr := words.AmountInWords(resp.ClosingBalance); werr == nil {
		resp.ClosingInWords = inWords
	}
	c.JSON(http.StatusOK, resp)
}

// parsePeriod parses from/to query values accepting RFC3339 or plain dates.
func parsePeriod(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := parseDateParam(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid 'from' date, expected RFC3339 or YYYY-MM-DD")
	}
	to, err := parseDateParam(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid 'to' date, expected RFC3339 or YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("'to' date must not precede 'from' date")
	}
	return from, to, nil
}

func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
