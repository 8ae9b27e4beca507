package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

type fakeValidationService struct {
	zelleFn func(ctx context.Context, sub model.ZelleSubmission) (*model.ValidationResult, error)
	bankFn  func(ctx context.Context, sub model.BankTransferSubmission) (*model.ValidationResult, error)
	byIDFn  func(ctx context.Context, donationID uuid.UUID) (*model.Donation, error)

	lastBankSub *model.BankTransferSubmission
}

func (s *fakeValidationService) ValidateZelle(
	ctx context.Context,
	sub model.ZelleSubmission,
) (*model.ValidationResult, error) {
	return s.zelleFn(ctx, sub)
}

func (s *fakeValidationService) ValidateBankTransfer(
	ctx context.Context,
	sub model.BankTransferSubmission,
) (*model.ValidationResult, error) {
	s.lastBankSub = &sub
	return s.bankFn(ctx, sub)
}

func (s *fakeValidationService) DonationByID(
	ctx context.Context,
	donationID uuid.UUID,
) (*model.Donation, error) {
	return s.byIDFn(ctx, donationID)
}

type fakeSubscriberService struct {
	subscribeFn func(ctx context.Context, sub model.Subscriber) (string, error)
}

func (s *fakeSubscriberService) Subscribe(ctx context.Context, sub model.Subscriber) (string, error) {
	return s.subscribeFn(ctx, sub)
}

type fakeConfirmationWatcher struct {
	status model.ConfirmationStatus
}

func (w *fakeConfirmationWatcher) Status(_ uuid.UUID) model.ConfirmationStatus {
	return w.status
}

func newTestRouter(
	validation ValidationService,
	subs SubscriberService,
	watcher ConfirmationWatcher,
) *chi.Mux {
	r := chi.NewRouter()
	NewDonationHandler(validation, subs, watcher).Register(r)
	return r
}

func TestCreateSubscriber(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	tests := []struct {
		name       string
		body       string
		subscribe  func(ctx context.Context, sub model.Subscriber) (string, error)
		wantStatus int
	}{
		{
			name: "created",
			body: `{"name":"Grace","email":"grace@example.com"}`,
			subscribe: func(_ context.Context, sub model.Subscriber) (string, error) {
				return uuid.NewString(), nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: `{"name":"Grace","email":"grace@example.com"}`,
			subscribe: func(_ context.Context, _ model.Subscriber) (string, error) {
				return "", model.ErrDuplicateEmail
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "validation error",
			body: `{"name":"","email":""}`,
			subscribe: func(_ context.Context, _ model.Subscriber) (string, error) {
				return "", model.NewValidationError("name is required")
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `{`,
			subscribe:  nil,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(
				&fakeValidationService{},
				&fakeSubscriberService{subscribeFn: tt.subscribe},
				&fakeConfirmationWatcher{},
			)

			req := httptest.NewRequest(http.MethodPost, "/api/subscribers", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusCreated {
				var body messageError
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body.Message)
			}
		})
	}
}

func TestValidateZelleEndpoint(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	donationID := uuid.New()

	svc := &fakeValidationService{
		zelleFn: func(_ context.Context, sub model.ZelleSubmission) (*model.ValidationResult, error) {
			assert.Equal(t, "donor@example.com", sub.SenderEmail)
			assert.Equal(t, "ABC123DEF", sub.TransactionID)
			assert.Equal(t, int64(5000), sub.Amount)
			return &model.ValidationResult{DonationID: donationID, Status: model.StatusValidated}, nil
		},
	}
	router := newTestRouter(svc, &fakeSubscriberService{}, &fakeConfirmationWatcher{})

	body := `{"zelleSenderEmail":"donor@example.com","zelleConfirmation":"abc123def","amount":"50.00","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/zelle-payment/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, donationID.String(), resp.DonationID)
	assert.Equal(t, "VALIDATED", resp.Status)
}

func TestValidateZelleDuplicate(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	svc := &fakeValidationService{
		zelleFn: func(_ context.Context, _ model.ZelleSubmission) (*model.ValidationResult, error) {
			return nil, model.ErrDuplicateReference
		},
	}
	router := newTestRouter(svc, &fakeSubscriberService{}, &fakeConfirmationWatcher{})

	body := `{"zelleSenderEmail":"donor@example.com","zelleConfirmation":"ABC123DEF","amount":"50.00","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/zelle-payment/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp validateError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.DuplicateWireCode, resp.Code)
	assert.Contains(t, resp.Error, "duplicate key value")
}

func multipartBankBody(t *testing.T, slipSize int) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	require.NoError(t, mw.WriteField("reference", "1234567890"))
	require.NoError(t, mw.WriteField("senderName", "Adaeze Obi"))
	require.NoError(t, mw.WriteField("amount", "5000.00"))
	require.NoError(t, mw.WriteField("currency", "NGN"))

	if slipSize > 0 {
		part, err := mw.CreateFormFile("slipFile", "slip.pdf")
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte("a"), slipSize))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestValidateBankTransferEndpoint(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	donationID := uuid.New()

	svc := &fakeValidationService{
		bankFn: func(_ context.Context, sub model.BankTransferSubmission) (*model.ValidationResult, error) {
			return &model.ValidationResult{DonationID: donationID, Status: model.StatusValidated}, nil
		},
	}
	router := newTestRouter(svc, &fakeSubscriberService{}, &fakeConfirmationWatcher{})

	body, contentType := multipartBankBody(t, 2048)
	req := httptest.NewRequest(http.MethodPost, "/api/nigerian-bank-transfer/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.lastBankSub)
	assert.Equal(t, "1234567890", svc.lastBankSub.Reference)
	assert.Equal(t, "Adaeze Obi", svc.lastBankSub.SenderName)
	assert.Equal(t, int64(500000), svc.lastBankSub.Amount)
	require.NotNil(t, svc.lastBankSub.Slip)
	assert.Equal(t, "slip.pdf", svc.lastBankSub.Slip.Name)
	assert.Equal(t, int64(2048), svc.lastBankSub.Slip.Size)
}

func TestValidateBankTransferOversizeSlip(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	svc := &fakeValidationService{
		bankFn: func(_ context.Context, _ model.BankTransferSubmission) (*model.ValidationResult, error) {
			t.Fatal("oversize slip must never reach the service")
			return nil, nil
		},
	}
	router := newTestRouter(svc, &fakeSubscriberService{}, &fakeConfirmationWatcher{})

	body, contentType := multipartBankBody(t, model.MaxSlipSize+1)
	req := httptest.NewRequest(http.MethodPost, "/api/nigerian-bank-transfer/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDonationByIDEndpoint(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	donationID := uuid.New()

	svc := &fakeValidationService{
		byIDFn: func(_ context.Context, id uuid.UUID) (*model.Donation, error) {
			if id != donationID {
				return nil, model.ErrDonationNotFound
			}
			return &model.Donation{
				ID:       donationID,
				Amount:   5000,
				Currency: model.CurrencyUSD,
				Method:   model.PaymentMethodZelle,
				Status:   model.StatusValidated,
			}, nil
		},
	}
	router := newTestRouter(svc, &fakeSubscriberService{}, &fakeConfirmationWatcher{
		status: model.ConfirmationPending,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/donations/"+donationID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp donationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "50.00", resp.Amount)
	assert.Equal(t, string(model.ConfirmationPending), resp.Confirmation)

	// Unknown donation.
	req = httptest.NewRequest(http.MethodGet, "/api/donations/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
