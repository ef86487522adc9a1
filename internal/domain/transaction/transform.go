package transaction

import "encoding/json"

// Normalize converts a raw record into editable field state. Missing or null
// values become empty strings for every known field, including fields of
// modes other than the record's current one: the user may switch mode during
// the session and the stale values must still be defined. An absent mode
// defaults to Cash.
func Normalize(rec *Record, kind Kind) Fields {
	f := Fields{
		Amount: rec.Amount,
		Mode:   rec.Mode,

		ReferenceNo: strVal(rec.ReferenceNo),
		DrawnOn:     strVal(rec.DrawnOn),
		DrawnAs:     strVal(rec.DrawnAs),

		ChequeDate:   strVal(rec.ChequeDate),
		ChequeNumber: strVal(rec.ChequeNumber),
		BankName:     strVal(rec.BankName),

		TransferType: strVal(rec.TransferType),
		TransferDate: strVal(rec.TransferDate),

		UPIName: strVal(rec.UPIName),
		UPIID:   strVal(rec.UPIID),
		UPIDate: strVal(rec.UPIDate),
	}
	if f.Mode == "" {
		f.Mode = ModeCash
	}
	if kind == KindRefund {
		f.Date = strVal(rec.RefundDate)
	} else {
		f.Date = strVal(rec.PaymentDate)
	}
	return f
}

// Payload builds the update payload for the current field state. The base
// fields are always present; exactly one mode-specific attribute group is
// appended, selected by the current mode. Values belonging to the other
// modes never reach the output, no matter what stale state they hold.
//
// Both kinds are filtered the same way; the date key is the kind's
// canonical one. No mode-specific field is validated here: an empty value
// is sent as null.
func (f Fields) Payload(kind Kind) map[string]interface{} {
	p := map[string]interface{}{
		"amount":       numberOrNull(f.Amount),
		"mode":         f.Mode,
		kind.DateKey(): f.Date,
		"referenceNo":  orNull(f.ReferenceNo),
		"drawnOn":      orNull(f.DrawnOn),
		"drawnAs":      orNull(f.DrawnAs),
	}

	switch f.Mode {
	case ModeCheque:
		p["chequeDate"] = orNull(f.ChequeDate)
		p["chequeNumber"] = orNull(f.ChequeNumber)
		p["bankName"] = orNull(f.BankName)
	case ModeBankTransfer:
		p["transferType"] = orNull(f.TransferType)
		p["transferDate"] = orNull(f.TransferDate)
		p["bankName"] = orNull(f.BankName)
	case ModeUPI:
		p["upiName"] = orNull(f.UPIName)
		p["upiId"] = orNull(f.UPIID)
		p["upiDate"] = orNull(f.UPIDate)
	}
	// Cash and unrecognized modes carry no extra group.

	return p
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orNull(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// numberOrNull keeps the amount numeric on the wire; an empty json.Number
// would not marshal, so it degrades to null. The edit session refuses to
// submit without an amount, so null only appears in payloads built outside
// a submit.
func numberOrNull(n json.Number) interface{} {
	if n == "" {
		return nil
	}
	return n
}
