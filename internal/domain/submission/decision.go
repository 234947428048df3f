package submission

import "time"

// Decision is the partial update a transition applies to a submission.
// The Stage tag names the reviewer whose audit fields the update may
// touch; when empty, only the status itself changes. Building a Decision
// through NewDecision is the only way stage fields get populated, so the
// set of legal field writes per stage is fixed here rather than assembled
// ad hoc at the call site.
type Decision struct {
	Status Status

	// Stage is the reviewer whose fields this decision writes. Empty when
	// the requested reviewer does not recognize the requested status.
	Stage Reviewer

	Comment    string
	ReviewedAt time.Time

	// Signatures are carried only on the founder's final approval.
	SubmitterSignature string
	FounderSignature   string
}

// NewDecision computes the update for a transition request. An
// unrecognized reviewer, or a status outside the reviewer's stage pair,
// yields a status-only decision; the extra fields are silently dropped
// rather than rejected.
func NewDecision(status Status, reviewer Reviewer, comment string, submitterSig, founderSig string, now time.Time) Decision {
	d := Decision{Status: status}

	if !reviewer.IsValid() || !reviewer.Recognizes(status) {
		return d
	}

	d.Stage = reviewer
	d.Comment = comment
	d.ReviewedAt = now

	if reviewer == ReviewerFounder && status == StatusApproved {
		d.SubmitterSignature = submitterSig
		d.FounderSignature = founderSig
	}

	return d
}

// HasStage returns true if the decision writes reviewer audit fields
func (d Decision) HasStage() bool {
	return d.Stage != ""
}

// HasSignatures returns true if the decision carries signature payloads
func (d Decision) HasSignatures() bool {
	return d.SubmitterSignature != "" || d.FounderSignature != ""
}
