package enum

import "testing"

func TestPaymentStatusFor(t *testing.T) {
	tests := []struct {
		total, credit float64
		want          PaymentStatus
	}{
		{100, 0, PaymentStatusUnpaid},
		{100, 40, PaymentStatusPartially},
		{100, 100, PaymentStatusPaid},
		{100, 120, PaymentStatusPaid},
		{0, 0, PaymentStatusUnpaid},
	}
	for _, tt := range tests {
		if got := PaymentStatusFor(tt.total, tt.credit); got != tt.want {
			t.Errorf("PaymentStatusFor(%v, %v) = %s, want %s", tt.total, tt.credit, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	if !DocumentStatusOnHold.Valid() || DocumentStatus("archived").Valid() {
		t.Error("DocumentStatus.Valid mismatch")
	}
	if !LeadStatusQualified.Valid() || LeadStatus("").Valid() {
		t.Error("LeadStatus.Valid mismatch")
	}
	if DealStageWon.Open() || !DealStageProposal.Open() {
		t.Error("DealStage.Open mismatch")
	}
	if !ActivityTypeCall.Valid() || ActivityStatus("done").Valid() {
		t.Error("activity enums mismatch")
	}
}
