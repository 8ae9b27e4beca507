package model

type (
	PayPalStatus string
	SubmitStatus string
	ZelleTab     string
	BankTab      string
	DialogKind   string
)

const (
	PayPalIdle      PayPalStatus = "IDLE"
	PayPalPopupOpen PayPalStatus = "POPUP_OPEN"
	PayPalCompleted PayPalStatus = "COMPLETED"
	PayPalCanceled  PayPalStatus = "CANCELED"
)

// SubmitStatus drives both the Zelle session and the bank transfer
// upload substate. While SubmitInFlight, further submissions are
// rejected so a double trigger never issues two concurrent posts.
const (
	SubmitIdle     SubmitStatus = "IDLE"
	SubmitInFlight SubmitStatus = "SUBMITTING"
	SubmitSuccess  SubmitStatus = "SUCCESS"
	SubmitError    SubmitStatus = "ERROR"
)

const (
	ZelleTabEmail ZelleTab = "EMAIL"
	ZelleTabPhone ZelleTab = "PHONE"
)

const (
	BankTabDetails    BankTab = "BANK_DETAILS"
	BankTabUploadSlip BankTab = "UPLOAD_SLIP"
)

const (
	DialogNone       DialogKind = "NONE"
	DialogProcessing DialogKind = "PROCESSING"
	DialogSuccess    DialogKind = "SUCCESS"
	DialogError      DialogKind = "ERROR"
)

// DialogState is a pure projection of session state for whatever view
// layer sits in front of the service. The processing kind is not
// dismissible; the error kind always carries a retry affordance.
type DialogState struct {
	Kind      DialogKind
	Message   string
	CanRetry  bool
	Dismissal bool
}
