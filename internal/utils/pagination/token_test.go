package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	expenseDate := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 11, 4, 9, 30, 15, 123456789, time.UTC)

	token := EncodeToken(expenseDate, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreated, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, expenseDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"missing separator", "MjAyNS0xMS0wM1QwMDowMDowMFo="}, // base64 of a single timestamp
		{"garbage timestamps", "Zm9vfGJhcg=="},                 // base64 of "foo|bar"
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeToken(tt.token)
			assert.Error(t, err)
		})
	}
}
