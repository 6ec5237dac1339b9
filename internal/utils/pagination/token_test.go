package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/finbooks_app/internal/utils/pagination"
)

func TestTokenRoundTrip(t *testing.T) {
	documentDate := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, time.March, 10, 14, 32, 5, 123456789, time.UTC)

	token := pagination.EncodeToken(documentDate, createdAt)
	gotDate, gotCreatedAt, err := pagination.DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, documentDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreatedAt))
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "%%%"},
		{name: "missing separator", token: "MjAyNS0wMy0xMFQwMDowMDowMFo="},
		{name: "bad document date", token: "bm90LWEtZGF0ZXwyMDI1LTAzLTEwVDAwOjAwOjAwWg=="},
		{name: "empty", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := pagination.DecodeToken(tt.token)
			assert.Error(t, err)
		})
	}
}
