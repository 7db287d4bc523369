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
	"github.com/bharatbooks/gst_ledger_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewAuthService(suite.mockRepo, "test-secret", time.Hour, "test-issuer")
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{Username: "accountant", Password: "s3cretpass", Name: "A. Countant"}

	suite.mockRepo.On("FindUserByUsername", ctx, "accountant").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("accountant", user.Username)
	suite.NotEqual("s3cretpass", user.PasswordHash, "password must never be stored in the clear")
	suite.True(utils.CheckPasswordHash("s3cretpass", user.PasswordHash))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateUsername() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{Username: "accountant", Password: "s3cretpass", Name: "A. Countant"}

	existing := &domain.User{UserID: uuid.NewString(), Username: "accountant"}
	suite.mockRepo.On("FindUserByUsername", ctx, "accountant").Return(existing, nil).Once()

	_, err := suite.service.Register(ctx, req)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser")
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()

	hash, err := utils.HashPassword("s3cretpass")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "accountant", PasswordHash: hash}
	suite.mockRepo.On("FindUserByUsername", ctx, "accountant").Return(user, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Username: "accountant", Password: "s3cretpass"})

	suite.Require().NoError(err)
	suite.Equal(user.UserID, resp.UserID)
	suite.NotEmpty(resp.Token)
	suite.True(resp.ExpiresAt.After(time.Now()))
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()

	hash, err := utils.HashPassword("s3cretpass")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "accountant", PasswordHash: hash}
	suite.mockRepo.On("FindUserByUsername", ctx, "accountant").Return(user, nil).Once()

	_, err = suite.service.Login(ctx, dto.LoginRequest{Username: "accountant", Password: "wrongpass"})

	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUser() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Username: "ghost", Password: "whatever"})

	suite.ErrorIs(err, services.ErrInvalidCredentials,
		"unknown user and bad password are indistinguishable to the caller")
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
