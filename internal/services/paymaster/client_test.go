package paymaster

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-pass/internal/status"
)

func TestSponsorAndSend_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sponsor", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c2lnbmVkLXR4", body["transaction"])

		json.NewEncoder(w).Encode(status.Transaction{
			Signature: "5Sxr9vGiUuDd2mg1AsFfy5V1iUpAPrtTCdMA3ikZNLeM",
			Status:    status.StatusConfirmed,
			Slot:      421,
		})
	}))
	defer srv.Close()

	client, err := New(&Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)

	tx, err := client.SponsorAndSend(context.Background(), "c2lnbmVkLXR4")
	require.NoError(t, err)
	assert.Equal(t, "5Sxr9vGiUuDd2mg1AsFfy5V1iUpAPrtTCdMA3ikZNLeM", tx.Signature)
	assert.True(t, tx.Confirmed())
	assert.False(t, tx.SubmittedAt.IsZero())
}

func TestSponsorAndSend_SponsorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{"error": "sponsorship quota exceeded"})
	}))
	defer srv.Close()

	client, err := New(&Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.SponsorAndSend(context.Background(), "c2lnbmVkLXR4")
	assert.ErrorContains(t, err, "sponsorship quota exceeded")
}

func TestSponsorAndSend_InvalidInput(t *testing.T) {
	client, err := New(&Config{BaseURL: "http://localhost:1"})
	require.NoError(t, err)

	_, err = client.SponsorAndSend(context.Background(), "")
	assert.ErrorContains(t, err, "empty signed transaction")
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{})
	assert.Error(t, err)
}
