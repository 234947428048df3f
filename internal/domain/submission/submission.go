package submission

import "time"

// FileRef points at an uploaded object by its public URL. Objects are
// created by the upload surface before the submission is posted; the
// workflow only ever reads or removes them.
type FileRef struct {
	FileURL string `json:"fileUrl"`
}

// Submission is a document submission moving through the approval workflow.
// Submitter-provided fields are immutable after creation; stage fields are
// written once by their corresponding reviewer.
type Submission struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Subject string    `json:"subject"`
	Message string    `json:"message"`
	Files   []FileRef `json:"files"`
	Status  Status    `json:"status"`

	FinanceComment    string     `json:"finance_comment,omitempty"`
	FinanceReviewedAt *time.Time `json:"finance_reviewed_at,omitempty"`

	CofounderComment    string     `json:"cofounder_comment,omitempty"`
	CofounderReviewedAt *time.Time `json:"cofounder_reviewed_at,omitempty"`

	FounderComment    string     `json:"founder_comment,omitempty"`
	FounderReviewedAt *time.Time `json:"founder_reviewed_at,omitempty"`

	SubmitterSignature string `json:"submitter_signature,omitempty"`
	FounderSignature   string `json:"founder_signature,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows a submission listing
type Filter struct {
	Status Status
	Email  string
}
