package service

import (
	"context"

	"taskhub/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyOtp(ctx context.Context, r dto.VerifyOtpRequest) (*dto.VerifyOtpResponse, error)
	ResendOtp(ctx context.Context, r dto.ResendOtpRequest) (*dto.ResendOtpResponse, error)
	Login(ctx context.Context, r dto.LoginRequest, deviceUUID string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken, deviceUUID string) (*dto.RefreshResponse, error)
}
