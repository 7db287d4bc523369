package services

import (
	"context"

	"github.com/bharatbooks/gst_ledger_app/internal/core/domain"
	"github.com/bharatbooks/gst_ledger_app/internal/dto"
)

// AuthSvcFacade defines user registration and credential login.
type AuthSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
