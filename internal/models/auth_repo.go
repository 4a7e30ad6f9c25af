package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go/types"
)

type AuthRepo interface {
	SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
}

func (su *SupabaseRepo) SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if su.supabaseClient == nil {
		return nil, fmt.Errorf("supabase client is not initialized")
	}
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		if strings.Contains(err.Error(), "Invalid login credentials") {
			return nil, fmt.Errorf("invalid email or password")
		}
		return nil, fmt.Errorf("failed to authenticate user: %v", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if su.supabaseClient == nil {
		return nil, fmt.Errorf("supabase client is not initialized")
	}
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %v", err)
	}
	return resp, nil
}
