// Package transaction implements editing of payment and refund records: the
// mode-conditional mapping between the wire record, local editable field
// state, and the update payload.
package transaction

import "encoding/json"

// Mode discriminates which payment mechanism a record used. Exactly one
// mode-specific attribute group is active at a time.
type Mode string

const (
	ModeCash         Mode = "Cash"
	ModeCheque       Mode = "Cheque"
	ModeBankTransfer Mode = "BankTransfer"
	ModeUPI          Mode = "UPI"
)

// Modes lists the selectable modes in display order.
func Modes() []Mode {
	return []Mode{ModeCash, ModeCheque, ModeBankTransfer, ModeUPI}
}

// TransferType enumerates bank transfer mechanisms. The empty value means
// "not selected" and serializes as null.
type TransferType string

const (
	TransferIMPS TransferType = "IMPS"
	TransferNEFT TransferType = "NEFT"
	TransferRTGS TransferType = "RTGS"
)

// Kind discriminates payment records from refund records. Each kind has one
// canonical date key used identically on load and update.
type Kind string

const (
	KindPayment Kind = "payment"
	KindRefund  Kind = "refund"
)

// DateKey returns the canonical JSON key for the record-type date.
func (k Kind) DateKey() string {
	if k == KindRefund {
		return "refundDate"
	}
	return "paymentDate"
}

// Path returns the API path for a record of this kind.
func (k Kind) Path(id string) string {
	if k == KindRefund {
		return "/api/refunds/" + id
	}
	return "/api/payments/" + id
}

// Record is the wire shape of a server-held payment or refund. Optional
// fields are pointers so that absent and null are indistinguishable from
// each other but distinguishable from empty strings.
type Record struct {
	ID     string      `json:"id"`
	BillID string      `json:"billId"`
	Amount json.Number `json:"amount,omitempty"`
	Mode   Mode        `json:"mode,omitempty"`

	PaymentDate *string `json:"paymentDate,omitempty"`
	RefundDate  *string `json:"refundDate,omitempty"`

	ReferenceNo *string `json:"referenceNo,omitempty"`
	DrawnOn     *string `json:"drawnOn,omitempty"`
	DrawnAs     *string `json:"drawnAs,omitempty"`

	ChequeDate   *string `json:"chequeDate,omitempty"`
	ChequeNumber *string `json:"chequeNumber,omitempty"`
	BankName     *string `json:"bankName,omitempty"`

	TransferType *string `json:"transferType,omitempty"`
	TransferDate *string `json:"transferDate,omitempty"`

	UPIName *string `json:"upiName,omitempty"`
	UPIID   *string `json:"upiId,omitempty"`
	UPIDate *string `json:"upiDate,omitempty"`
}

// Fields is the session-scoped editable field state. Every field is a
// defined, renderable value: strings are never null here, and the amount's
// zero value is the empty json.Number. Fields belonging to non-selected
// modes keep their values so a mode switch mid-session finds them intact.
type Fields struct {
	Amount json.Number
	Mode   Mode
	Date   string

	ReferenceNo string
	DrawnOn     string
	DrawnAs     string

	ChequeDate   string
	ChequeNumber string
	BankName     string

	TransferType string
	TransferDate string

	UPIName string
	UPIID   string
	UPIDate string
}
