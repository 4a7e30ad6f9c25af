package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

// AdminService signs admins in through Supabase and decides who counts as one.
type AdminService struct {
	auth    models.AuthRepo
	allowed map[string]struct{}
}

// NewAdminService builds the service. An empty allow-list admits every
// account Supabase authenticates.
func NewAdminService(auth models.AuthRepo, adminEmails []string) *AdminService {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			allowed[e] = struct{}{}
		}
	}
	return &AdminService{auth: auth, allowed: allowed}
}

func (as *AdminService) IsAllowed(email string) bool {
	if len(as.allowed) == 0 {
		return true
	}
	_, ok := as.allowed[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func (as *AdminService) Login(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalidInput(fmt.Errorf("email and password are required"))
	}
	if !as.IsAllowed(email) {
		return nil, ErrForbidden
	}

	resp, err := as.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return resp, nil
}

func (as *AdminService) Refresh(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: missing refresh token", ErrAuth)
	}
	resp, err := as.auth.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return resp, nil
}
