package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/bharatbooks/gst_ledger_app/internal/apperrors"
	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	portssvc "github.com/bharatbooks/gst_ledger_app/internal/core/ports/services"
	"github.com/bharatbooks/gst_ledger_app/internal/core/services"
	"github.com/bharatbooks/gst_ledger_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// MockVoucherRepository is a mock type for the VoucherRepositoryFacade interface
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) SaveDraftVoucher(ctx context.Context, voucher domain.Voucher, entries []domain.LedgerEntry, lineItems []domain.LineItem) error {
	args := m.Called(ctx, voucher, entries, lineItems)
	return args.Error(0)
}

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockVoucherRepository) FindLineItemsByVoucherID(ctx context.Context, voucherID string) ([]domain.LineItem, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchers(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Voucher, *string, error) {
	args := m.Called(ctx, limit, nextToken, includeReversals)
	var vouchers []domain.Voucher
	if args.Get(0) != nil {
		vouchers = args.Get(0).([]domain.Voucher)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return vouchers, token, args.Error(2)
}

func (m *MockVoucherRepository) PostVoucher(ctx context.Context, voucher domain.Voucher, entries []domain.LedgerEntry, postedBy string, postedAt time.Time) error {
	args := m.Called(ctx, voucher, entries, postedBy, postedAt)
	return args.Error(0)
}

func (m *MockVoucherRepository) SaveReversal(ctx context.Context, reversing domain.Voucher, entries []domain.LedgerEntry, originalVoucherID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, reversing, entries, originalVoucherID, updatedBy, updatedAt)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	args := m.Called(ctx, ledgerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) ListLedgers(ctx context.Context, includeInactive bool) ([]domain.Ledger, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) UpdateLedger(ctx context.Context, ledger domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateLedgerOpening(ctx context.Context, ledgerID string, opening decimal.Decimal, openingDate time.Time, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, ledgerID, opening, openingDate, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockLedgerRepository) SetLedgerActive(ctx context.Context, ledgerID string, active bool, updatedBy string) error {
	args := m.Called(ctx, ledgerID, active, updatedBy)
	return args.Error(0)
}

// --- Test Suite Setup ---

type VoucherServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo *MockVoucherRepository
	mockLedgerRepo  *MockLedgerRepository
	guard           *services.PostingGuard
	service         portssvc.VoucherSvcFacade

	cashLedgerID  string
	salesLedgerID string
	ledgers       map[string]domain.Ledger
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.guard = services.NewPostingGuard()
	suite.service = services.NewVoucherService(suite.mockVoucherRepo, suite.mockLedgerRepo, suite.guard)

	suite.cashLedgerID = uuid.NewString()
	suite.salesLedgerID = uuid.NewString()
	suite.ledgers = map[string]domain.Ledger{
		suite.cashLedgerID: {
			LedgerID: suite.cashLedgerID,
			Name:     "Cash",
			Group:    domain.Asset,
			IsActive: true,
		},
		suite.salesLedgerID: {
			LedgerID: suite.salesLedgerID,
			Name:     "Sales",
			Group:    domain.Income,
			IsActive: true,
		},
	}
}

func (suite *VoucherServiceTestSuite) journalRequest(debit, credit string) dto.CreateVoucherRequest {
	return dto.CreateVoucherRequest{
		Type:      domain.Journal,
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Narration: "Opening cash sale",
		Entries: []dto.CreateEntryRequest{
			{LedgerID: suite.cashLedgerID, DebitAmount: dec(debit)},
			{LedgerID: suite.salesLedgerID, CreditAmount: dec(credit)},
		},
	}
}

// --- Test Cases ---

func (suite *VoucherServiceTestSuite) TestCreateVoucher_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := suite.journalRequest("100", "100")

	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.ledgers, nil).Once()
	suite.mockVoucherRepo.On("SaveDraftVoucher", ctx, mock.AnythingOfType("domain.Voucher"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.Anything).Return(nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voucher)
	suite.Equal(domain.Draft, voucher.Status)
	suite.Len(voucher.Entries, 2)
	suite.True(voucher.TotalAmount.Equal(dec("100")))
	suite.Equal(userID, voucher.CreatedBy)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_AmbiguousEntry() {
	ctx := context.Background()
	req := suite.journalRequest("100", "100")
	// Both sides set on one leg
	req.Entries[0].CreditAmount = dec("50")

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAmbiguousEntry)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveDraftVoucher")
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_BothZeroEntry() {
	ctx := context.Background()
	req := suite.journalRequest("100", "100")
	req.Entries = append(req.Entries, dto.CreateEntryRequest{LedgerID: suite.cashLedgerID})

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.ErrorIs(err, services.ErrAmbiguousEntry)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_Unbalanced() {
	ctx := context.Background()
	req := suite.journalRequest("100", "99")

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnbalanced)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveDraftVoucher")
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_WithinToleranceBalances() {
	ctx := context.Background()
	req := suite.journalRequest("100.00", "99.99")

	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.ledgers, nil).Once()
	suite.mockVoucherRepo.On("SaveDraftVoucher", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.NoError(err, "a 0.01 mismatch is within tolerance")
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_NegativeAmount() {
	ctx := context.Background()
	req := suite.journalRequest("100", "100")
	req.Entries[0].DebitAmount = dec("-100")

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_MissingLedger() {
	ctx := context.Background()
	req := suite.journalRequest("100", "100")

	// Sales ledger absent from the repo result
	partial := map[string]domain.Ledger{suite.cashLedgerID: suite.ledgers[suite.cashLedgerID]}
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.AnythingOfType("[]string")).Return(partial, nil).Once()

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.ErrorIs(err, services.ErrMissingLedger)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_InactiveLedger() {
	ctx := context.Background()
	req := suite.journalRequest("100", "100")

	inactive := suite.ledgers[suite.salesLedgerID]
	inactive.IsActive = false
	ledgers := map[string]domain.Ledger{
		suite.cashLedgerID:  suite.ledgers[suite.cashLedgerID],
		suite.salesLedgerID: inactive,
	}
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.AnythingOfType("[]string")).Return(ledgers, nil).Once()

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.ErrorIs(err, services.ErrMissingLedger)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_SingleLedger() {
	ctx := context.Background()
	req := suite.journalRequest("100", "100")
	req.Entries[1].LedgerID = suite.cashLedgerID

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.ErrorIs(err, services.ErrVoucherMinLedgers)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_NarrationRequired() {
	ctx := context.Background()
	req := suite.journalRequest("100", "100")
	req.Narration = ""

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.ErrorIs(err, services.ErrNarrationMissing)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_SalesComputesGST() {
	ctx := context.Background()
	req := suite.journalRequest("1180", "1180")
	req.Type = domain.Sales
	req.SupplierState = "MH"
	req.PlaceOfSupply = "MH"
	req.LineItems = []dto.CreateLineItemRequest{
		{Description: "Widgets", HSNCode: "8471", Quantity: dec("1"), Rate: dec("1000"), GSTRate: dec("18")},
	}

	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.ledgers, nil).Once()
	suite.mockVoucherRepo.On("SaveDraftVoucher", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().Len(voucher.LineItems, 1)
	line := voucher.LineItems[0]
	suite.True(line.CGSTAmount.Equal(dec("90")))
	suite.True(line.SGSTAmount.Equal(dec("90")))
	suite.True(line.IGSTAmount.IsZero())
	suite.True(voucher.TotalAmount.Equal(dec("1180")))
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_SalesEntriesMustBookInvoiceTotal() {
	ctx := context.Background()
	// Entries book 100 while the line items invoice 1180.
	req := suite.journalRequest("100", "100")
	req.Type = domain.Sales
	req.SupplierState = "MH"
	req.PlaceOfSupply = "MH"
	req.LineItems = []dto.CreateLineItemRequest{
		{Description: "Widgets", HSNCode: "8471", Quantity: dec("1"), Rate: dec("1000"), GSTRate: dec("18")},
	}

	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.ledgers, nil).Once()

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.ErrorIs(err, services.ErrUnbalanced)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveDraftVoucher")
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_SalesEntriesMustBookInvoiceTotal() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	draft := &domain.Voucher{VoucherID: voucherID, Type: domain.Sales, Status: domain.Draft, Narration: "Invoice 7"}
	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), VoucherID: voucherID, LedgerID: suite.cashLedgerID, DebitAmount: dec("100")},
		{EntryID: uuid.NewString(), VoucherID: voucherID, LedgerID: suite.salesLedgerID, CreditAmount: dec("100")},
	}
	lineItems := []domain.LineItem{
		{
			LineItemID:    uuid.NewString(),
			VoucherID:     voucherID,
			Description:   "Widgets",
			Quantity:      dec("1"),
			Rate:          dec("1000"),
			TaxableAmount: dec("1000"),
			GSTRate:       dec("18"),
			CGSTAmount:    dec("90"),
			SGSTAmount:    dec("90"),
			TotalAmount:   dec("1180"),
		},
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(draft, nil).Once()
	suite.mockVoucherRepo.On("FindEntriesByVoucherID", ctx, voucherID).Return(entries, nil).Once()
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.ledgers, nil).Once()
	suite.mockVoucherRepo.On("FindLineItemsByVoucherID", ctx, voucherID).Return(lineItems, nil).Once()

	_, err := suite.service.PostVoucher(ctx, voucherID, uuid.NewString())

	suite.ErrorIs(err, services.ErrUnbalanced)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "PostVoucher")
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_SalesNeedsPlaceOfSupply() {
	ctx := context.Background()
	req := suite.journalRequest("1180", "1180")
	req.Type = domain.Sales
	req.LineItems = []dto.CreateLineItemRequest{
		{Description: "Widgets", Quantity: dec("1"), Rate: dec("1000"), GSTRate: dec("18")},
	}

	_, err := suite.service.CreateVoucher(ctx, req, uuid.NewString())

	suite.ErrorIs(err, services.ErrPlaceOfSupplyNeeded)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_Success() {
	ctx := context.Background()
	voucherID := uuid.NewString()
	userID := uuid.NewString()

	draft := &domain.Voucher{VoucherID: voucherID, Type: domain.Journal, Status: domain.Draft, Narration: "test"}
	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), VoucherID: voucherID, LedgerID: suite.cashLedgerID, DebitAmount: dec("100")},
		{EntryID: uuid.NewString(), VoucherID: voucherID, LedgerID: suite.salesLedgerID, CreditAmount: dec("100")},
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(draft, nil).Once()
	suite.mockVoucherRepo.On("FindEntriesByVoucherID", ctx, voucherID).Return(entries, nil).Once()
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.ledgers, nil).Once()
	suite.mockVoucherRepo.On("PostVoucher", ctx, mock.AnythingOfType("domain.Voucher"), mock.AnythingOfType("[]domain.LedgerEntry"), userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	posted, err := suite.service.PostVoucher(ctx, voucherID, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_NotDraft() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	posted := &domain.Voucher{VoucherID: voucherID, Status: domain.Posted}
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(posted, nil).Once()

	_, err := suite.service.PostVoucher(ctx, voucherID, uuid.NewString())

	suite.ErrorIs(err, services.ErrVoucherNotDraft)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "PostVoucher")
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_HaltedGuardRefuses() {
	ctx := context.Background()
	suite.guard.Halt("trial balance difference 0.05")

	_, err := suite.service.PostVoucher(ctx, uuid.NewString(), uuid.NewString())

	suite.ErrorIs(err, services.ErrInvariantViolation)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "FindVoucherByID")
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_ConcurrencyConflict() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	draft := &domain.Voucher{VoucherID: voucherID, Status: domain.Draft}
	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), LedgerID: suite.cashLedgerID, DebitAmount: dec("100")},
		{EntryID: uuid.NewString(), LedgerID: suite.salesLedgerID, CreditAmount: dec("100")},
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(draft, nil).Once()
	suite.mockVoucherRepo.On("FindEntriesByVoucherID", ctx, voucherID).Return(entries, nil).Once()
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.ledgers, nil).Once()
	suite.mockVoucherRepo.On("PostVoucher", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.NewAppError(409, "voucher is no longer a draft", apperrors.ErrConflict)).Once()

	_, err := suite.service.PostVoucher(ctx, voucherID, uuid.NewString())

	suite.ErrorIs(err, services.ErrConcurrencyConflict)
}

func (suite *VoucherServiceTestSuite) TestReverseVoucher_Success() {
	ctx := context.Background()
	voucherID := uuid.NewString()
	userID := uuid.NewString()

	original := &domain.Voucher{
		VoucherID:   voucherID,
		Type:        domain.Sales,
		Status:      domain.Posted,
		Narration:   "Invoice 42",
		TotalAmount: dec("1180"),
		RoundOff:    dec("0.004"),
	}
	originalEntries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), VoucherID: voucherID, LedgerID: suite.cashLedgerID, DebitAmount: dec("1180")},
		{EntryID: uuid.NewString(), VoucherID: voucherID, LedgerID: suite.salesLedgerID, CreditAmount: dec("1180")},
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(original, nil).Once()
	suite.mockVoucherRepo.On("FindEntriesByVoucherID", ctx, voucherID).Return(originalEntries, nil).Once()
	suite.mockVoucherRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.Voucher"), mock.AnythingOfType("[]domain.LedgerEntry"), voucherID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversing, err := suite.service.ReverseVoucher(ctx, voucherID, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Require().NotNil(reversing.OriginalVoucherID)
	suite.Equal(voucherID, *reversing.OriginalVoucherID)
	suite.True(reversing.RoundOff.Equal(dec("-0.004")), "round-off flips sign with the rest of the voucher")

	// Every leg swaps sides with an unchanged magnitude.
	suite.Require().Len(reversing.Entries, 2)
	suite.True(reversing.Entries[0].CreditAmount.Equal(originalEntries[0].DebitAmount))
	suite.True(reversing.Entries[1].DebitAmount.Equal(originalEntries[1].CreditAmount))
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestReverseVoucher_OnlyPosted() {
	ctx := context.Background()
	voucherID := uuid.NewString()

	draft := &domain.Voucher{VoucherID: voucherID, Status: domain.Draft}
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(draft, nil).Once()

	_, err := suite.service.ReverseVoucher(ctx, voucherID, uuid.NewString())

	suite.ErrorIs(err, services.ErrVoucherNotPosted)
}

func (suite *VoucherServiceTestSuite) TestReverseVoucher_NoReversalOfReversal() {
	ctx := context.Background()
	voucherID := uuid.NewString()
	originalID := uuid.NewString()

	reversal := &domain.Voucher{VoucherID: voucherID, Status: domain.Posted, OriginalVoucherID: &originalID}
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucherID).Return(reversal, nil).Once()

	_, err := suite.service.ReverseVoucher(ctx, voucherID, uuid.NewString())

	suite.ErrorIs(err, services.ErrReversalOfReversal)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveReversal")
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
