package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"
)

type fakeAuthRepo struct {
	password string
	calls    int
}

func (f *fakeAuthRepo) SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	f.calls++
	if password != f.password {
		return nil, errors.New("invalid email or password")
	}
	resp := &types.TokenResponse{}
	resp.AccessToken = "access-" + email
	resp.RefreshToken = "refresh-" + email
	return resp, nil
}

func (f *fakeAuthRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken != "refresh-admin@scorecraft.dev" {
		return nil, errors.New("invalid refresh token")
	}
	resp := &types.TokenResponse{}
	resp.AccessToken = "access-2"
	resp.RefreshToken = "refresh-2"
	return resp, nil
}

func TestAdminLogin(t *testing.T) {
	repo := &fakeAuthRepo{password: "s3cret!"}
	svc := NewAdminService(repo, []string{" Admin@ScoreCraft.dev ", ""})
	ctx := context.Background()

	resp, err := svc.Login(ctx, "admin@scorecraft.dev", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "access-admin@scorecraft.dev", resp.AccessToken)

	_, err = svc.Login(ctx, "admin@scorecraft.dev", "wrong")
	assert.ErrorIs(t, err, ErrAuth)

	_, err = svc.Login(ctx, "someone@uni.edu", "s3cret!")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, 2, repo.calls, "non-admins are rejected before reaching Supabase")

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdminRefreshAndOpenAllowList(t *testing.T) {
	svc := NewAdminService(&fakeAuthRepo{}, nil)
	assert.True(t, svc.IsAllowed("anyone@uni.edu"))

	resp, err := svc.Refresh(context.Background(), "refresh-admin@scorecraft.dev")
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", resp.RefreshToken)

	_, err = svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrAuth)
	_, err = svc.Refresh(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrAuth)
}
