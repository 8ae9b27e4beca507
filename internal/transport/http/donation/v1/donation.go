package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

// duplicateKeyMessage is the exact text the deployed front-end matches
// on together with code 11000. Keep it stable.
const duplicateKeyMessage = `duplicate key value violates unique constraint "donations_method_reference_key"`

// maxMultipartBody leaves headroom for the non-file multipart fields on
// top of the slip itself.
const maxMultipartBody = model.MaxSlipSize + 1<<20

type ValidationService interface {
	ValidateZelle(
		ctx context.Context,
		sub model.ZelleSubmission,
	) (*model.ValidationResult, error)
	ValidateBankTransfer(
		ctx context.Context,
		sub model.BankTransferSubmission,
	) (*model.ValidationResult, error)
	DonationByID(ctx context.Context, donationID uuid.UUID) (*model.Donation, error)
}

type SubscriberService interface {
	Subscribe(ctx context.Context, sub model.Subscriber) (string, error)
}

// ConfirmationWatcher reports how far a validated donation has moved
// towards confirmation.
type ConfirmationWatcher interface {
	Status(donationID uuid.UUID) model.ConfirmationStatus
}

type handler struct {
	validation ValidationService
	subs       SubscriberService
	watcher    ConfirmationWatcher
}

func NewDonationHandler(
	validation ValidationService,
	subs SubscriberService,
	watcher ConfirmationWatcher,
) *handler {
	return &handler{validation: validation, subs: subs, watcher: watcher}
}

func (h *handler) Register(r chi.Router) {
	r.Post("/api/subscribers", h.CreateSubscriber)
	r.Post("/api/zelle-payment/validate", h.ValidateZelle)
	r.Post("/api/nigerian-bank-transfer/validate", h.ValidateBankTransfer)
	r.Get("/api/donations/{donationID}", h.DonationByID)
}

type subscriberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type subscriberResponse struct {
	ID string `json:"id"`
}

type messageError struct {
	Message string `json:"message"`
}

func (h *handler) CreateSubscriber(w http.ResponseWriter, r *http.Request) {
	var req subscriberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, messageError{Message: "invalid json body"})
		return
	}

	id, err := h.subs.Subscribe(r.Context(), model.Subscriber{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		status := mapErrorToStatus(err)
		writeJSON(r.Context(), w, status, messageError{Message: err.Error()})
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, subscriberResponse{ID: id})
}

type zelleValidateRequest struct {
	ZelleSenderEmail  string `json:"zelleSenderEmail"`
	ZelleSenderPhone  string `json:"zelleSenderPhone"`
	ZelleConfirmation string `json:"zelleConfirmation"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
}

type validateResponse struct {
	DonationID string `json:"donationId"`
	Status     string `json:"status"`
}

type validateError struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

func (h *handler) ValidateZelle(w http.ResponseWriter, r *http.Request) {
	var req zelleValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, validateError{Error: "invalid json body"})
		return
	}

	amount, err := converter.ParseAmount(req.Amount)
	if err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, validateError{Error: err.Error()})
		return
	}

	cur, ok := model.ParseCurrency(req.Currency)
	if !ok {
		writeJSON(r.Context(), w, http.StatusBadRequest,
			validateError{Error: fmt.Sprintf("unsupported currency %q", req.Currency)})
		return
	}

	res, err := h.validation.ValidateZelle(r.Context(), model.ZelleSubmission{
		SenderEmail:   req.ZelleSenderEmail,
		SenderPhone:   req.ZelleSenderPhone,
		TransactionID: converter.NormalizeZelleTransactionID(req.ZelleConfirmation),
		Amount:        amount,
		Currency:      cur,
	})
	if err != nil {
		writeValidateError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, validateResponse{
		DonationID: res.DonationID.String(),
		Status:     string(res.Status),
	})
}

func (h *handler) ValidateBankTransfer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)

	if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(r.Context(), w, http.StatusRequestEntityTooLarge,
				validateError{Error: model.ErrSlipTooLarge.Error()})
			return
		}
		writeJSON(r.Context(), w, http.StatusBadRequest,
			validateError{Error: "invalid multipart body"})
		return
	}

	amount, err := converter.ParseAmount(r.FormValue("amount"))
	if err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, validateError{Error: err.Error()})
		return
	}

	cur, ok := model.ParseCurrency(r.FormValue("currency"))
	if !ok {
		writeJSON(r.Context(), w, http.StatusBadRequest,
			validateError{Error: fmt.Sprintf("unsupported currency %q", r.FormValue("currency"))})
		return
	}

	sub := model.BankTransferSubmission{
		Reference:  converter.NormalizeBankReference(r.FormValue("reference")),
		SenderName: r.FormValue("senderName"),
		Amount:     amount,
		Currency:   cur,
	}

	file, header, err := r.FormFile("slipFile")
	if err == nil {
		defer func() {
			_ = file.Close()
		}()

		if header.Size > model.MaxSlipSize {
			writeJSON(r.Context(), w, http.StatusRequestEntityTooLarge,
				validateError{Error: model.ErrSlipTooLarge.Error()})
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest,
				validateError{Error: "unreadable slip file"})
			return
		}

		sub.Slip = &model.SlipFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     content,
		}
	}

	res, err := h.validation.ValidateBankTransfer(r.Context(), sub)
	if err != nil {
		writeValidateError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, validateResponse{
		DonationID: res.DonationID.String(),
		Status:     string(res.Status),
	})
}

type donationResponse struct {
	ID           string `json:"id"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Method       string `json:"method"`
	Reference    string `json:"reference"`
	Status       string `json:"status"`
	Confirmation string `json:"confirmation,omitempty"`
}

func (h *handler) DonationByID(w http.ResponseWriter, r *http.Request) {
	donationID, err := uuid.Parse(chi.URLParam(r, "donationID"))
	if err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, validateError{Error: "invalid donation id"})
		return
	}

	don, err := h.validation.DonationByID(r.Context(), donationID)
	if err != nil {
		writeJSON(r.Context(), w, mapErrorToStatus(err), validateError{Error: err.Error()})
		return
	}

	resp := donationResponse{
		ID:        don.ID.String(),
		Amount:    converter.FormatMinor(don.Amount),
		Currency:  string(don.Currency),
		Method:    string(don.Method),
		Reference: don.Reference,
		Status:    string(don.Status),
	}
	if h.watcher != nil {
		resp.Confirmation = string(h.watcher.Status(donationID))
	}

	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func writeValidateError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrDuplicateReference) {
		writeJSON(ctx, w, http.StatusConflict, validateError{
			Error: duplicateKeyMessage,
			Code:  model.DuplicateWireCode,
		})
		return
	}

	writeJSON(ctx, w, mapErrorToStatus(err), validateError{Error: err.Error()})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDonationNotFound),
		errors.Is(err, model.ErrSubscriberNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrDuplicateReference),
		errors.Is(err, model.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, model.ErrSlipTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrBadGateway):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(ctx, "write response", logger.ErrorF(err))
	}
}
