package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/apperrors"
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	portssvc "github.com/bharatbooks/gst_ledger_app/internal/core/ports/services"
	"github.com/bharatbooks/gst_ledger_app/internal/core/services"
	"github.com/bharatbooks/gst_ledger_app/internal/dto"
	"github.com/bharatbooks/gst_ledger_app/internal/handlers"
	"github.com/bharatbooks/gst_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock VoucherService ---
type MockVoucherService struct {
	mock.Mock
}

func (m *MockVoucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}
func (m *MockVoucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}
func (m *MockVoucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListVouchersResponse), args.Error(1)
}
func (m *MockVoucherService) PostVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}
func (m *MockVoucherService) ReverseVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.VoucherSvcFacade = (*MockVoucherService)(nil)

// --- Test Suite ---
type VoucherHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockVoucherService *MockVoucherService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *VoucherHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "gla-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *VoucherHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockVoucherService = new(MockVoucherService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterVoucherRoutes(v1, suite.mockVoucherService)
}

func (suite *VoucherHandlerTestSuite) authorizedRequest(method, url string, body []byte, userID string) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// --- Test Cases ---

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_Success() {
	userID := uuid.NewString()
	cashLedgerID := uuid.NewString()
	salesLedgerID := uuid.NewString()

	reqBody := dto.CreateVoucherRequest{
		Type:      domain.Journal,
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Narration: "Cash sale",
		Entries: []dto.CreateEntryRequest{
			{LedgerID: cashLedgerID, DebitAmount: decimal.NewFromInt(100)},
			{LedgerID: salesLedgerID, CreditAmount: decimal.NewFromInt(100)},
		},
	}

	created := &domain.Voucher{
		VoucherID:   uuid.NewString(),
		Type:        domain.Journal,
		Date:        reqBody.Date,
		Status:      domain.Draft,
		Narration:   reqBody.Narration,
		TotalAmount: decimal.NewFromInt(100),
	}

	suite.mockVoucherService.On("CreateVoucher",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(r dto.CreateVoucherRequest) bool {
			return r.Narration == "Cash sale" && len(r.Entries) == 2
		}),
		userID,
	).Return(created, nil).Once()

	body, _ := json.Marshal(reqBody)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/vouchers", body, userID))

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.VoucherResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.VoucherID, resp.VoucherID)
	suite.Equal(domain.Draft, resp.Status)
	suite.Equal("One Hundred Rupees Only", resp.TotalInWords)
	suite.mockVoucherService.AssertExpectations(suite.T())
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_UnbalancedReturns400() {
	userID := uuid.NewString()

	reqBody := dto.CreateVoucherRequest{
		Type:      domain.Journal,
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Narration: "Lopsided",
		Entries: []dto.CreateEntryRequest{
			{LedgerID: uuid.NewString(), DebitAmount: decimal.NewFromInt(100)},
			{LedgerID: uuid.NewString(), CreditAmount: decimal.NewFromInt(99)},
		},
	}

	suite.mockVoucherService.On("CreateVoucher",
		mock.AnythingOfType("*context.valueCtx"), mock.Anything, userID,
	).Return(nil, services.ErrUnbalanced).Once()

	body, _ := json.Marshal(reqBody)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/vouchers", body, userID))

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *VoucherHandlerTestSuite) TestCreateVoucher_NoTokenReturns401() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/vouchers", bytes.NewReader([]byte("{}")))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockVoucherService.AssertNotCalled(suite.T(), "CreateVoucher")
}

func (suite *VoucherHandlerTestSuite) TestGetVoucher_NotFound() {
	userID := uuid.NewString()
	voucherID := uuid.NewString()

	suite.mockVoucherService.On("GetVoucherByID",
		mock.AnythingOfType("*context.valueCtx"), voucherID,
	).Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/vouchers/%s", voucherID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodGet, url, nil, userID))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *VoucherHandlerTestSuite) TestPostVoucher_ConflictWhenNotDraft() {
	userID := uuid.NewString()
	voucherID := uuid.NewString()

	suite.mockVoucherService.On("PostVoucher",
		mock.AnythingOfType("*context.valueCtx"), voucherID, userID,
	).Return(nil, services.ErrVoucherNotDraft).Once()

	url := fmt.Sprintf("/api/v1/vouchers/%s/post", voucherID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, url, nil, userID))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *VoucherHandlerTestSuite) TestPostVoucher_HaltedReturns503() {
	userID := uuid.NewString()
	voucherID := uuid.NewString()

	suite.mockVoucherService.On("PostVoucher",
		mock.AnythingOfType("*context.valueCtx"), voucherID, userID,
	).Return(nil, services.ErrInvariantViolation).Once()

	url := fmt.Sprintf("/api/v1/vouchers/%s/post", voucherID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, url, nil, userID))

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *VoucherHandlerTestSuite) TestReverseVoucher_Success() {
	userID := uuid.NewString()
	originalID := uuid.NewString()

	reversing := &domain.Voucher{
		VoucherID:         uuid.NewString(),
		Type:              domain.Journal,
		Status:            domain.Posted,
		Narration:         "Reversal of Voucher: Cash sale",
		TotalAmount:       decimal.NewFromInt(100),
		OriginalVoucherID: &originalID,
	}

	suite.mockVoucherService.On("ReverseVoucher",
		mock.AnythingOfType("*context.valueCtx"), originalID, userID,
	).Return(reversing, nil).Once()

	url := fmt.Sprintf("/api/v1/vouchers/%s/reverse", originalID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, url, nil, userID))

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.VoucherResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.OriginalVoucherID)
	suite.Equal(originalID, *resp.OriginalVoucherID)
}

func (suite *VoucherHandlerTestSuite) TestListVouchers_PassesParams() {
	userID := uuid.NewString()

	expected := &dto.ListVouchersResponse{Vouchers: []dto.VoucherResponse{}}
	suite.mockVoucherService.On("ListVouchers",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(p dto.ListVouchersParams) bool {
			return p.Limit == 10 && p.IncludeReversals
		}),
	).Return(expected, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodGet, "/api/v1/vouchers?limit=10&includeReversals=true", nil, userID))

	suite.Equal(http.StatusOK, w.Code)
	suite.mockVoucherService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestVoucherHandler(t *testing.T) {
	suite.Run(t, new(VoucherHandlerTestSuite))
}
