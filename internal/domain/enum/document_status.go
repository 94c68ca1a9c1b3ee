package enum

// DocumentStatus is the lifecycle state of an invoice or quote
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusSent      DocumentStatus = "sent"
	DocumentStatusAccepted  DocumentStatus = "accepted"
	DocumentStatusDeclined  DocumentStatus = "declined"
	DocumentStatusCancelled DocumentStatus = "cancelled"
	DocumentStatusOnHold    DocumentStatus = "on hold"
)

func (s DocumentStatus) String() string {
	return string(s)
}

// Valid reports whether s is a known status
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusPending, DocumentStatusSent, DocumentStatusAccepted,
		DocumentStatusDeclined, DocumentStatusCancelled, DocumentStatusOnHold:
		return true
	}
	return false
}

// PaymentStatus tracks how much of an invoice has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusPartially PaymentStatus = "partially"
	PaymentStatusPaid      PaymentStatus = "paid"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPartially || s == PaymentStatusPaid
}

// PaymentStatusFor derives the payment status from an invoice total and the
// amount already credited against it
func PaymentStatusFor(total, credit float64) PaymentStatus {
	switch {
	case credit <= 0:
		return PaymentStatusUnpaid
	case credit >= total:
		return PaymentStatusPaid
	default:
		return PaymentStatusPartially
	}
}
