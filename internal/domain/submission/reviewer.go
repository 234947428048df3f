package submission

// Reviewer identifies the approval stage acting on a submission
type Reviewer string

const (
	ReviewerFinance   Reviewer = "finance"
	ReviewerCofounder Reviewer = "cofounder"
	ReviewerFounder   Reviewer = "founder"
)

// reviewerStatuses maps each reviewer to the pair of statuses it is
// recognized to produce. A PATCH carrying any other combination updates
// the status only, without touching stage fields.
var reviewerStatuses = map[Reviewer][]Status{
	ReviewerFinance:   {StatusFinanceApproved, StatusFinanceRejected},
	ReviewerCofounder: {StatusCofounderApproved, StatusCofounderRejected},
	ReviewerFounder:   {StatusApproved, StatusFounderRejected},
}

// String returns the wire representation of the reviewer
func (r Reviewer) String() string {
	return string(r)
}

// IsValid returns true if the reviewer is one of the three recognized roles
func (r Reviewer) IsValid() bool {
	_, ok := reviewerStatuses[r]
	return ok
}

// Recognizes returns true if the status belongs to the reviewer's stage
func (r Reviewer) Recognizes(status Status) bool {
	for _, s := range reviewerStatuses[r] {
		if s == status {
			return true
		}
	}
	return false
}
