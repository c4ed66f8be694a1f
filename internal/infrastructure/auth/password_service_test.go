package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/assessauth/domain"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("Secur3!pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Secur3!pass", hash)

	assert.True(t, svc.Verify(hash, "Secur3!pass"))
	assert.False(t, svc.Verify(hash, "wrong"))
	assert.False(t, svc.Verify("not-a-hash", "Secur3!pass"))
}

func TestPasswordService_CheckStrength(t *testing.T) {
	svc := NewPasswordService()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"upper lower digit", "Password1", nil},
		{"upper lower symbol", "Password!", nil},
		{"lower digit symbol", "passw0rd!", nil},
		{"all four classes", "Passw0rd!", nil},
		{"too short", "Pa1!", domain.ErrWeakPassword},
		{"exactly seven chars", "Passw0!", domain.ErrWeakPassword},
		{"only lowercase", "passwordpassword", domain.ErrWeakPassword},
		{"only two classes", "password1234", domain.ErrWeakPassword},
		{"digits only", "1234567890", domain.ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckStrength(tt.password)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}
