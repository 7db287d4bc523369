package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bharatbooks/gst_ledger_app/internal/apperrors"
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	portssvc "github.com/bharatbooks/gst_ledger_app/internal/core/ports/services"
	"github.com/bharatbooks/gst_ledger_app/internal/core/services"
	"github.com/bharatbooks/gst_ledger_app/internal/dto"
	"github.com/bharatbooks/gst_ledger_app/internal/middleware"
	"github.com/bharatbooks/gst_ledger_app/internal/utils/words"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests for the voucher lifecycle.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

func newVoucherHandler(vs portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{voucherService: vs}
}

// RegisterVoucherRoutes mounts the voucher lifecycle endpoints on the group.
func RegisterVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := newVoucherHandler(voucherService)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.POST("/:id/post", h.postVoucher)
		vouchers.POST("/:id/reverse", h.reverseVoucher)
	}
}

// voucherErrorStatus maps voucher service failures to HTTP statuses. The
// validation sentinels are client errors; conflicts and the halt state get
// their own codes so clients can distinguish retry from stop.
func voucherErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, services.ErrMissingLedger),
		errors.Is(err, services.ErrAmbiguousEntry),
		errors.Is(err, services.ErrUnbalanced),
		errors.Is(err, services.ErrInvalidLineTax),
		errors.Is(err, services.ErrVoucherMinEntries),
		errors.Is(err, services.ErrVoucherMinLedgers),
		errors.Is(err, services.ErrNarrationMissing),
		errors.Is(err, services.ErrLineItemsMissing),
		errors.Is(err, services.ErrPlaceOfSupplyNeeded),
		errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, services.ErrVoucherNotDraft),
		errors.Is(err, services.ErrVoucherNotPosted),
		errors.Is(err, services.ErrReversalOfReversal),
		errors.Is(err, services.ErrConcurrencyConflict):
		return http.StatusConflict, true
	case errors.Is(err, services.ErrInvariantViolation):
		return http.StatusServiceUnavailable, true
	}
	return 0, false
}

// createVoucher godoc
// @Summary Create a draft voucher
// @Description Validates entries (balanced, single-sided) and creates a DRAFT voucher. For SALES/PURCHASE vouchers the GST breakup of each line is computed from the place of supply. No ledger balance changes until posting.
// @Tags vouchers
// @Accept json
// @Produce json
// @Param voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), req, userID)
	if err != nil {
		if status, ok := voucherErrorStatus(err); ok {
			c.JSON(status, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create voucher", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create voucher"})
		return
	}

	logger.Info("Voucher created", slog.String("voucher_id", voucher.VoucherID))
	c.JSON(http.StatusCreated, h.toResponse(voucher))
}

// getVoucher godoc
// @Summary Get a voucher by ID
// @Description Retrieves a voucher with its entries, line items and total in words.
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /vouchers/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("id")

	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), voucherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Voucher not found"})
			return
		}
		logger.Error("Failed to retrieve voucher", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve voucher"})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Lists vouchers newest first with token pagination. Reversal pairs are hidden unless includeReversals=true.
// @Tags vouchers
// @Produce json
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination cursor from a previous page"
// @Param includeReversals query bool false "Include cancelled vouchers and their reversals"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListVouchersParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}
	params.IncludeReversals, _ = strconv.ParseBool(c.DefaultQuery("includeReversals", "false"))

	resp, err := h.voucherService.ListVouchers(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list vouchers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list vouchers"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// postVoucher godoc
// @Summary Post a draft voucher
// @Description Atomically applies a validated draft to the affected ledgers: posting rows are appended, cached balances updated and the voucher becomes POSTED. Irreversible except by reversal.
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Postings halted by trial balance violation"
// @Security BearerAuth
// @Router /vouchers/{id}/post [post]
func (h *voucherHandler) postVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	voucher, err := h.voucherService.PostVoucher(c.Request.Context(), voucherID, userID)
	if err != nil {
		if status, ok := voucherErrorStatus(err); ok {
			c.JSON(status, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to post voucher", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to post voucher"})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(voucher))
}

// reverseVoucher godoc
// @Summary Reverse a posted voucher
// @Description Cancels a posted voucher by posting an equal-and-opposite voucher linked to the original. The original's history is never mutated.
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 201 {object} dto.VoucherResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Postings halted by trial balance violation"
// @Security BearerAuth
// @Router /vouchers/{id}/reverse [post]
func (h *voucherHandler) reverseVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reversing, err := h.voucherService.ReverseVoucher(c.Request.Context(), voucherID, userID)
	if err != nil {
		if status, ok := voucherErrorStatus(err); ok {
			c.JSON(status, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to reverse voucher", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to reverse voucher"})
		return
	}

	logger.Info("Voucher reversed", slog.String("voucher_id", voucherID), slog.String("reversing_voucher_id", reversing.VoucherID))
	c.JSON(http.StatusCreated, h.toResponse(reversing))
}

// toResponse converts a voucher and fills the amount-in-words at the
// presentation boundary.
func (h *voucherHandler) toResponse(voucher *domain.Voucher) dto.VoucherResponse {
	resp := dto.ToVoucherResponse(voucher)
	if inWords, err := words.AmountInWords(voucher.TotalAmount); err == nil {
		resp.TotalInWords = inWords
	}
	return resp
}
