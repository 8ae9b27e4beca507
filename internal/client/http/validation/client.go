package valclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

const (
	zellePath = "/api/zelle-payment/validate"
	bankPath  = "/api/nigerian-bank-transfer/validate"

	maxErrorBody = 64 << 10
)

// client submits proof-of-payment to a remote validation backend. The
// base URL is injected; nothing here reaches for ambient environment.
type client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client, baseURL string) *client {
	return &client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type zelleRequest struct {
	ZelleSenderEmail  string `json:"zelleSenderEmail,omitempty"`
	ZelleSenderPhone  string `json:"zelleSenderPhone,omitempty"`
	ZelleConfirmation string `json:"zelleConfirmation"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
}

type validateResponse struct {
	DonationID string `json:"donationId"`
	Status     string `json:"status"`
}

type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (c *client) ValidateZelle(
	ctx context.Context,
	sub model.ZelleSubmission,
) (*model.ValidationResult, error) {
	endpoint := c.baseURL + zellePath

	body, err := json.Marshal(zelleRequest{
		ZelleSenderEmail:  sub.SenderEmail,
		ZelleSenderPhone:  sub.SenderPhone,
		ZelleConfirmation: sub.TransactionID,
		Amount:            converter.FormatMinor(sub.Amount),
		Currency:          string(sub.Currency),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, endpoint)
}

func (c *client) ValidateBankTransfer(
	ctx context.Context,
	sub model.BankTransferSubmission,
) (*model.ValidationResult, error) {
	endpoint := c.baseURL + bankPath

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"reference":  sub.Reference,
		"senderName": sub.SenderName,
		"amount":     converter.FormatMinor(sub.Amount),
		"currency":   string(sub.Currency),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, err
		}
	}

	if sub.Slip != nil {
		part, err := mw.CreateFormFile("slipFile", sub.Slip.Name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(sub.Slip.Content); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, endpoint)
}

func (c *client) do(req *http.Request, endpoint string) (*model.ValidationResult, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request never reached the server; the caller shows
		// connectivity guidance with the resolved endpoint.
		return nil, fmt.Errorf("%w: POST %s: %v", model.ErrUnreachable, endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeServerError(resp)
	}

	var out validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode validation response: %w", err)
	}

	result := &model.ValidationResult{Status: model.DonationStatus(out.Status)}
	if out.DonationID != "" {
		id, err := uuid.Parse(out.DonationID)
		if err != nil {
			return nil, fmt.Errorf("parse donation id: %w", err)
		}
		result.DonationID = id
	}

	return result, nil
}

func decodeServerError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var se serverError
	if err := json.Unmarshal(data, &se); err != nil || (se.Error == "" && se.Message == "") {
		return fmt.Errorf("server responded with status %d but no details", resp.StatusCode)
	}

	msg := se.Error
	if msg == "" {
		msg = se.Message
	}

	if se.Code == model.DuplicateWireCode || strings.Contains(strings.ToLower(msg), "duplicate key") {
		return fmt.Errorf("%w: %s", model.ErrDuplicateReference, msg)
	}

	return errors.New(msg)
}
