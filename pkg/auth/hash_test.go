package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	service := &HashService{}

	tests := []struct {
		name      string
		password  string
		expectErr bool
	}{
		{"Valid password", "secret-password", false},
		{"Empty password", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := service.HashPassword(tt.password)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Empty(t, hash)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.True(t, service.ComparePassword(hash, tt.password))
			assert.False(t, service.ComparePassword(hash, "wrong-password"))
		})
	}
}
