package submission

// Status represents a submission's position in the approval lifecycle
type Status string

const (
	StatusPending           Status = "pending"
	StatusFinanceApproved   Status = "finance_approved"
	StatusFinanceRejected   Status = "finance_rejected"
	StatusCofounderApproved Status = "cofounder_approved"
	StatusCofounderRejected Status = "cofounder_rejected"
	StatusApproved          Status = "approved"
	StatusFounderRejected   Status = "founder_rejected"
)

var validStatuses = map[Status]bool{
	StatusPending:           true,
	StatusFinanceApproved:   true,
	StatusFinanceRejected:   true,
	StatusCofounderApproved: true,
	StatusCofounderRejected: true,
	StatusApproved:          true,
	StatusFounderRejected:   true,
}

var terminalStatuses = map[Status]bool{
	StatusFinanceRejected:   true,
	StatusCofounderRejected: true,
	StatusApproved:          true,
	StatusFounderRejected:   true,
}

var rejectedStatuses = map[Status]bool{
	StatusFinanceRejected:   true,
	StatusCofounderRejected: true,
	StatusFounderRejected:   true,
}

// nextStatuses defines the legal successors of each status when strict
// transition checking is enabled. Rejected and approved statuses have no
// successors.
var nextStatuses = map[Status][]Status{
	StatusPending:           {StatusFinanceApproved, StatusFinanceRejected},
	StatusFinanceApproved:   {StatusCofounderApproved, StatusCofounderRejected},
	StatusCofounderApproved: {StatusApproved, StatusFounderRejected},
}

// String returns the wire representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a member of the fixed enumeration
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal returns true if no further transitions are defined from the status
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsRejection returns true if the status is a rejection at any stage
func (s Status) IsRejection() bool {
	return rejectedStatuses[s]
}

// CanTransitionTo reports whether next is a legal successor of the status.
// This is only consulted when strict transition checking is enabled; the
// default engine behavior accepts any valid status, trusting the admin UI
// to request legal steps.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range nextStatuses[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal successors of the status
func (s Status) NextStatuses() []Status {
	return nextStatuses[s]
}
