package submission

import "testing"

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected bool
	}{
		{"pending", StatusPending, true},
		{"finance_approved", StatusFinanceApproved, true},
		{"finance_rejected", StatusFinanceRejected, true},
		{"cofounder_approved", StatusCofounderApproved, true},
		{"cofounder_rejected", StatusCofounderRejected, true},
		{"approved", StatusApproved, true},
		{"founder_rejected", StatusFounderRejected, true},
		{"empty", Status(""), false},
		{"unknown", Status("archived"), false},
		{"case sensitive", Status("Pending"), false},
		{"upper case", Status("APPROVED"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("Status.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusPending, false},
		{StatusFinanceApproved, false},
		{StatusCofounderApproved, false},
		{StatusFinanceRejected, true},
		{StatusCofounderRejected, true},
		{StatusApproved, true},
		{StatusFounderRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("Status.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsRejection(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusFinanceRejected, true},
		{StatusCofounderRejected, true},
		{StatusFounderRejected, true},
		{StatusPending, false},
		{StatusFinanceApproved, false},
		{StatusCofounderApproved, false},
		{StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsRejection(); got != tt.expected {
				t.Errorf("Status.IsRejection() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     Status
		to       Status
		expected bool
	}{
		{"pending to finance approval", StatusPending, StatusFinanceApproved, true},
		{"pending to finance rejection", StatusPending, StatusFinanceRejected, true},
		{"pending directly to approved", StatusPending, StatusApproved, false},
		{"pending to cofounder stage", StatusPending, StatusCofounderApproved, false},
		{"finance approved to cofounder approval", StatusFinanceApproved, StatusCofounderApproved, true},
		{"finance approved to cofounder rejection", StatusFinanceApproved, StatusCofounderRejected, true},
		{"finance approved back to pending", StatusFinanceApproved, StatusPending, false},
		{"cofounder approved to final approval", StatusCofounderApproved, StatusApproved, true},
		{"cofounder approved to founder rejection", StatusCofounderApproved, StatusFounderRejected, true},
		{"rejection is terminal", StatusFinanceRejected, StatusCofounderApproved, false},
		{"approved is terminal", StatusApproved, StatusFounderRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.expected {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestReviewer_Recognizes(t *testing.T) {
	tests := []struct {
		name     string
		reviewer Reviewer
		status   Status
		expected bool
	}{
		{"finance approval", ReviewerFinance, StatusFinanceApproved, true},
		{"finance rejection", ReviewerFinance, StatusFinanceRejected, true},
		{"finance does not own cofounder stage", ReviewerFinance, StatusCofounderApproved, false},
		{"cofounder approval", ReviewerCofounder, StatusCofounderApproved, true},
		{"cofounder rejection", ReviewerCofounder, StatusCofounderRejected, true},
		{"cofounder does not own final approval", ReviewerCofounder, StatusApproved, false},
		{"founder approval", ReviewerFounder, StatusApproved, true},
		{"founder rejection", ReviewerFounder, StatusFounderRejected, true},
		{"founder does not own finance stage", ReviewerFounder, StatusFinanceRejected, false},
		{"unknown reviewer", Reviewer("intern"), StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.reviewer.Recognizes(tt.status); got != tt.expected {
				t.Errorf("Recognizes(%s, %s) = %v, want %v", tt.reviewer, tt.status, got, tt.expected)
			}
		})
	}
}
