package valclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

func validZelleSubmission() model.ZelleSubmission {
	return model.ZelleSubmission{
		SenderEmail:   "donor@example.com",
		TransactionID: "ABC123DEF",
		Amount:        5000,
		Currency:      model.CurrencyUSD,
	}
}

func validBankSubmission() model.BankTransferSubmission {
	return model.BankTransferSubmission{
		Reference:  "1234567890",
		SenderName: "Adaeze Obi",
		Amount:     500000,
		Currency:   model.CurrencyNGN,
		Slip: &model.SlipFile{
			Name:        "slip.pdf",
			ContentType: "application/pdf",
			Size:        8,
			Content:     []byte("%PDF-1.4"),
		},
	}
}

func TestValidateZelleSuccess(t *testing.T) {
	t.Parallel()

	donationID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, zellePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "donor@example.com", body["zelleSenderEmail"])
		assert.Equal(t, "ABC123DEF", body["zelleConfirmation"])
		assert.Equal(t, "50.00", body["amount"])
		assert.Equal(t, "USD", body["currency"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"donationId": donationID.String(),
			"status":     "VALIDATED",
		})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), srv.URL)

	res, err := c.ValidateZelle(context.Background(), validZelleSubmission())
	require.NoError(t, err)
	assert.Equal(t, donationID, res.DonationID)
	assert.Equal(t, model.StatusValidated, res.Status)
}

func TestValidateBankTransferMultipart(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, bankPath, r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "1234567890", r.FormValue("reference"))
		assert.Equal(t, "Adaeze Obi", r.FormValue("senderName"))
		assert.Equal(t, "5000.00", r.FormValue("amount"))
		assert.Equal(t, "NGN", r.FormValue("currency"))

		file, header, err := r.FormFile("slipFile")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		assert.Equal(t, "slip.pdf", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), content)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"donationId": uuid.NewString(),
			"status":     "VALIDATED",
		})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), srv.URL)

	res, err := c.ValidateBankTransfer(context.Background(), validBankSubmission())
	require.NoError(t, err)
	assert.Equal(t, model.StatusValidated, res.Status)
}

func TestValidateErrorResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		status        int
		body          string
		wantDuplicate bool
		wantContains  string
	}{
		{
			name:          "duplicate by wire code",
			status:        http.StatusConflict,
			body:          `{"error":"reference already used","code":11000}`,
			wantDuplicate: true,
			wantContains:  "reference already used",
		},
		{
			name:          "duplicate by message substring",
			status:        http.StatusConflict,
			body:          `{"error":"duplicate key value violates unique constraint \"donations_method_reference_key\""}`,
			wantDuplicate: true,
			wantContains:  "duplicate key",
		},
		{
			name:         "server message surfaced",
			status:       http.StatusBadRequest,
			body:         `{"error":"confirmation code not recognized"}`,
			wantContains: "confirmation code not recognized",
		},
		{
			name:         "message field fallback",
			status:       http.StatusBadRequest,
			body:         `{"message":"invalid amount"}`,
			wantContains: "invalid amount",
		},
		{
			name:         "undecodable body",
			status:       http.StatusInternalServerError,
			body:         "<html>boom</html>",
			wantContains: "server responded with status 500 but no details",
		},
		{
			name:         "empty body",
			status:       http.StatusBadGateway,
			body:         "",
			wantContains: "server responded with status 502 but no details",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			c := NewClient(srv.Client(), srv.URL)

			_, err := c.ValidateZelle(context.Background(), validZelleSubmission())
			require.Error(t, err)

			assert.Equal(t, tt.wantDuplicate, errors.Is(err, model.ErrDuplicateReference))
			assert.Contains(t, err.Error(), tt.wantContains)
			assert.False(t, errors.Is(err, model.ErrUnreachable))
		})
	}
}

func TestValidateUnreachableHost(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close() // nothing listens anymore

	c := NewClient(&http.Client{}, baseURL)

	_, err := c.ValidateZelle(context.Background(), validZelleSubmission())
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrUnreachable))

	// The message names the endpoint so the connectivity dialog can
	// show where the request was going.
	assert.Contains(t, err.Error(), baseURL+zellePath)
}
