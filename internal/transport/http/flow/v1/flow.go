package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	donsvc "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/donation"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/session"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

type FlowService interface {
	SetCurrency(ctx context.Context, raw string) error
	SetAmountInput(amount string)
	SetDonorName(name string)
	State() donsvc.FlowState
	CreateIntent(ctx context.Context) (*model.DonationIntent, error)
	Intent(intentID uuid.UUID) (*model.DonationIntent, error)
}

type SessionManager interface {
	Create(
		ctx context.Context,
		intent model.DonationIntent,
		method model.PaymentMethod,
	) (session.Session, error)
	Session(intentID uuid.UUID) (session.Session, error)
	PayPal(intentID uuid.UUID) (*session.PayPalSession, error)
	Zelle(intentID uuid.UUID) (*session.ZelleSession, error)
	BankTransfer(intentID uuid.UUID) (*session.BankTransferSession, error)
	Destroy(intentID uuid.UUID)
}

type handler struct {
	flow     FlowService
	sessions SessionManager
}

func NewFlowHandler(flow FlowService, sessions SessionManager) *handler {
	return &handler{flow: flow, sessions: sessions}
}

func (h *handler) Register(r chi.Router) {
	r.Route("/api/flow", func(r chi.Router) {
		r.Get("/", h.FlowState)
		r.Post("/currency", h.SetCurrency)
		r.Post("/amount", h.SetAmount)
		r.Post("/donor", h.SetDonor)
		r.Post("/intents", h.CreateIntent)

		r.Route("/intents/{intentID}/session", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Delete("/", h.DestroySession)
			r.Get("/dialog", h.Dialog)
			r.Post("/dialog/close", h.CloseDialog)

			r.Post("/paypal/begin", h.PayPalBegin)
			r.Post("/paypal/heartbeat", h.PayPalHeartbeat)
			r.Post("/paypal/closed", h.PayPalClosed)
			r.Post("/paypal/completed", h.PayPalCompleted)

			r.Post("/zelle/form", h.ZelleForm)
			r.Post("/zelle/submit", h.ZelleSubmit)

			r.Post("/bank/form", h.BankForm)
			r.Post("/bank/slip", h.BankSlip)
			r.Post("/bank/submit", h.BankSubmit)
		})
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

type flowStateResponse struct {
	AmountInput string   `json:"amountInput"`
	DonorName   string   `json:"donorName"`
	Currency    string   `json:"currency"`
	Checkout    bool     `json:"checkout"`
	Presets     []string `json:"presets"`
	Methods     []string `json:"methods"`
}

func (h *handler) FlowState(w http.ResponseWriter, r *http.Request) {
	st := h.flow.State()

	presetAmounts := donsvc.Presets(st.Currency)
	presets := make([]string, 0, len(presetAmounts))
	for _, p := range presetAmounts {
		presets = append(presets, converter.FormatMinor(p))
	}

	methods := make([]string, 0, 2)
	for _, m := range donsvc.MethodsFor(st.Currency) {
		methods = append(methods, string(m))
	}

	respond(r.Context(), w, http.StatusOK, flowStateResponse{
		AmountInput: st.AmountInput,
		DonorName:   st.DonorName,
		Currency:    string(st.Currency),
		Checkout:    st.Checkout,
		Presets:     presets,
		Methods:     methods,
	})
}

type currencyRequest struct {
	Currency string `json:"currency"`
}

func (h *handler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var req currencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, model.NewValidationError("invalid json body"))
		return
	}

	if err := h.flow.SetCurrency(r.Context(), req.Currency); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type amountRequest struct {
	Amount string `json:"amount"`
}

func (h *handler) SetAmount(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, model.NewValidationError("invalid json body"))
		return
	}

	h.flow.SetAmountInput(req.Amount)
	w.WriteHeader(http.StatusNoContent)
}

type donorRequest struct {
	Name string `json:"name"`
}

func (h *handler) SetDonor(w http.ResponseWriter, r *http.Request) {
	var req donorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, model.NewValidationError("invalid json body"))
		return
	}

	h.flow.SetDonorName(req.Name)
	w.WriteHeader(http.StatusNoContent)
}

type intentResponse struct {
	IntentID  string `json:"intentId"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	DonorName string `json:"donorName,omitempty"`
}

func (h *handler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	intent, err := h.flow.CreateIntent(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respond(r.Context(), w, http.StatusCreated, intentResponse{
		IntentID:  intent.ID.String(),
		Amount:    converter.FormatMinor(intent.Amount),
		Currency:  string(intent.Currency),
		DonorName: intent.DonorName,
	})
}

type createSessionRequest struct {
	Method string `json:"method"`
}

type sessionResponse struct {
	Method string `json:"method"`
}

func (h *handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	intentID, ok := h.intentID(w, r)
	if !ok {
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, model.NewValidationError("invalid json body"))
		return
	}

	intent, err := h.flow.Intent(intentID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	sess, err := h.sessions.Create(r.Context(), *intent, model.PaymentMethod(req.Method))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respond(r.Context(), w, http.StatusCreated, sessionResponse{Method: string(sess.Method())})
}

func (h *handler) DestroySession(w http.ResponseWriter, r *http.Request) {
	intentID, ok := h.intentID(w, r)
	if !ok {
		return
	}

	h.sessions.Destroy(intentID)
	w.WriteHeader(http.StatusNoContent)
}

type dialogResponse struct {
	Kind      string `json:"kind"`
	Message   string `json:"message,omitempty"`
	CanRetry  bool   `json:"canRetry"`
	Dismissal bool   `json:"dismissal"`
}

func dialogToResponse(d model.DialogState) dialogResponse {
	return dialogResponse{
		Kind:      string(d.Kind),
		Message:   d.Message,
		CanRetry:  d.CanRetry,
		Dismissal: d.Dismissal,
	}
}

func (h *handler) Dialog(w http.ResponseWriter, r *http.Request) {
	intentID, ok := h.intentID(w, r)
	if !ok {
		return
	}

	sess, err := h.sessions.Session(intentID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respond(r.Context(), w, http.StatusOK, dialogToResponse(sess.Dialog()))
}

func (h *handler) CloseDialog(w http.ResponseWriter, r *http.Request) {
	intentID, ok := h.intentID(w, r)
	if !ok {
		return
	}

	sess, err := h.sessions.Session(intentID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	sess.CloseDialog()
	respond(r.Context(), w, http.StatusOK, dialogToResponse(sess.Dialog()))
}

type paypalBeginResponse struct {
	DonateURL string `json:"donateUrl"`
	Status    string `json:"status"`
}

func (h *handler) PayPalBegin(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.paypal(w, r)
	if !ok {
		return
	}

	donateURL, err := sess.Begin(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respond(r.Context(), w, http.StatusOK, paypalBeginResponse{
		DonateURL: donateURL,
		Status:    string(sess.Status()),
	})
}

func (h *handler) PayPalHeartbeat(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.paypal(w, r)
	if !ok {
		return
	}

	sess.Heartbeat()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) PayPalClosed(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.paypal(w, r)
	if !ok {
		return
	}

	sess.ReportClosed()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) PayPalCompleted(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.paypal(w, r)
	if !ok {
		return
	}

	if err := sess.SignalCompleted(r.Context()); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respond(r.Context(), w, http.StatusOK, sessionSnapshot{
		Status: string(sess.Status()),
		Dialog: dialogToResponse(sess.Dialog()),
	})
}

type zelleFormRequest struct {
	Tab           *string `json:"tab"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	TransactionID *string `json:"transactionId"`
}

type zelleFormResponse struct {
	Tab           string `json:"tab"`
	TransactionID string `json:"transactionId"`
}

func (h *handler) ZelleForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.zelle(w, r)
	if !ok {
		return
	}

	var req zelleFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, model.NewValidationError("invalid json body"))
		return
	}

	if req.Tab != nil {
		sess.SelectTab(model.ZelleTab(*req.Tab))
	}
	if req.Email != nil {
		sess.SetEmail(*req.Email)
	}
	if req.Phone != nil {
		sess.SetPhone(*req.Phone)
	}
	if req.TransactionID != nil {
		sess.TypeTransactionID(*req.TransactionID)
	}

	respond(r.Context(), w, http.StatusOK, zelleFormResponse{
		Tab:           string(sess.Tab()),
		TransactionID: sess.TransactionID(),
	})
}

type sessionSnapshot struct {
	Status string         `json:"status"`
	Dialog dialogResponse `json:"dialog"`
}

func (h *handler) ZelleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.zelle(w, r)
	if !ok {
		return
	}

	if err := sess.Submit(r.Context()); err != nil && sess.Dialog().Kind != model.DialogError {
		// Inline input problems and conflicts; dialog errors come back
		// as part of the snapshot instead.
		respondError(r.Context(), w, err)
		return
	}

	respond(r.Context(), w, http.StatusOK, sessionSnapshot{
		Status: string(sess.Status()),
		Dialog: dialogToResponse(sess.Dialog()),
	})
}

type bankFormRequest struct {
	Tab        *string `json:"tab"`
	SenderName *string `json:"senderName"`
	Reference  *string `json:"reference"`
}

type bankFormResponse struct {
	Tab       string `json:"tab"`
	Reference string `json:"reference"`
	HasSlip   bool   `json:"hasSlip"`
}

func (h *handler) BankForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.bank(w, r)
	if !ok {
		return
	}

	var req bankFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), w, model.NewValidationError("invalid json body"))
		return
	}

	if req.Tab != nil {
		sess.SelectTab(model.BankTab(*req.Tab))
	}
	if req.SenderName != nil {
		sess.SetSenderName(*req.SenderName)
	}
	if req.Reference != nil {
		sess.TypeReference(*req.Reference)
	}

	respond(r.Context(), w, http.StatusOK, bankFormResponse{
		Tab:       string(sess.Tab()),
		Reference: sess.Reference(),
		HasSlip:   sess.Slip() != nil,
	})
}

func (h *handler) BankSlip(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.bank(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, model.MaxSlipSize+1<<20)

	if err := r.ParseMultipartForm(model.MaxSlipSize + 1<<20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(r.Context(), w, model.ErrSlipTooLarge)
			return
		}
		respondError(r.Context(), w, model.NewValidationError("invalid multipart body"))
		return
	}

	file, header, err := r.FormFile("slipFile")
	if err != nil {
		respondError(r.Context(), w, model.NewValidationError("slipFile part is required"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(r.Context(), w, model.NewValidationError("unreadable slip file"))
		return
	}

	if err := sess.AttachSlip(&model.SlipFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     content,
	}); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respond(r.Context(), w, http.StatusOK, bankFormResponse{
		Tab:       string(sess.Tab()),
		Reference: sess.Reference(),
		HasSlip:   sess.Slip() != nil,
	})
}

func (h *handler) BankSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.bank(w, r)
	if !ok {
		return
	}

	if err := sess.Submit(r.Context()); err != nil && sess.Dialog().Kind != model.DialogError {
		respondError(r.Context(), w, err)
		return
	}

	respond(r.Context(), w, http.StatusOK, sessionSnapshot{
		Status: string(sess.Status()),
		Dialog: dialogToResponse(sess.Dialog()),
	})
}

func (h *handler) intentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "intentID"))
	if err != nil {
		respondError(r.Context(), w, model.NewValidationError("invalid intent id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *handler) paypal(w http.ResponseWriter, r *http.Request) (*session.PayPalSession, bool) {
	intentID, ok := h.intentID(w, r)
	if !ok {
		return nil, false
	}

	sess, err := h.sessions.PayPal(intentID)
	if err != nil {
		respondError(r.Context(), w, err)
		return nil, false
	}
	return sess, true
}

func (h *handler) zelle(w http.ResponseWriter, r *http.Request) (*session.ZelleSession, bool) {
	intentID, ok := h.intentID(w, r)
	if !ok {
		return nil, false
	}

	sess, err := h.sessions.Zelle(intentID)
	if err != nil {
		respondError(r.Context(), w, err)
		return nil, false
	}
	return sess, true
}

func (h *handler) bank(w http.ResponseWriter, r *http.Request) (*session.BankTransferSession, bool) {
	intentID, ok := h.intentID(w, r)
	if !ok {
		return nil, false
	}

	sess, err := h.sessions.BankTransfer(intentID)
	if err != nil {
		respondError(r.Context(), w, err)
		return nil, false
	}
	return sess, true
}

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	body := errorResponse{Error: err.Error()}
	if errors.Is(err, model.ErrDuplicateReference) {
		body.Code = model.DuplicateWireCode
	}
	respond(ctx, w, mapErrorToStatus(err), body)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrConfig):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDonationNotFound),
		errors.Is(err, model.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrSessionConflict),
		errors.Is(err, model.ErrDuplicateReference),
		errors.Is(err, model.ErrPopupBlocked):
		return http.StatusConflict
	case errors.Is(err, model.ErrSlipTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrUnreachable),
		errors.Is(err, model.ErrBadGateway):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respond(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(ctx, "write response", logger.ErrorF(err))
	}
}
