package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avenford/workflow-backend/internal/application/port"
	"github.com/avenford/workflow-backend/internal/domain/submission"
)

// Mock repositories and collaborators

type mockSubmissionRepo struct {
	createFunc        func(ctx context.Context, sub *submission.Submission) error
	getByIDFunc       func(ctx context.Context, id string) (*submission.Submission, error)
	listFunc          func(ctx context.Context, filter submission.Filter) ([]*submission.Submission, error)
	applyDecisionFunc func(ctx context.Context, id string, decision submission.Decision) error
	deleteFunc        func(ctx context.Context, id string) error

	appliedDecisions []submission.Decision
	deletedIDs       []string
}

func (m *mockSubmissionRepo) Create(ctx context.Context, sub *submission.Submission) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubmissionRepo) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &submission.Submission{
		ID:      id,
		Name:    "Jane Doe",
		Email:   "jane@acme.com",
		Subject: "Expense approval",
		Message: "Please approve Q3 travel expenses.",
		Status:  submission.StatusPending,
	}, nil
}

func (m *mockSubmissionRepo) List(ctx context.Context, filter submission.Filter) ([]*submission.Submission, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []*submission.Submission{}, nil
}

func (m *mockSubmissionRepo) ApplyDecision(ctx context.Context, id string, decision submission.Decision) error {
	m.appliedDecisions = append(m.appliedDecisions, decision)
	if m.applyDecisionFunc != nil {
		return m.applyDecisionFunc(ctx, id, decision)
	}
	return nil
}

func (m *mockSubmissionRepo) Delete(ctx context.Context, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockObjectStore struct {
	saveFunc       func(ctx context.Context, key string, content []byte) error
	removeFunc     func(ctx context.Context, key string) error
	keyFromURLFunc func(fileURL string) (string, error)

	removedKeys []string
}

func (m *mockObjectStore) Save(ctx context.Context, key string, content []byte) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, key, content)
	}
	return nil
}

func (m *mockObjectStore) Exists(ctx context.Context, key string) bool {
	return true
}

func (m *mockObjectStore) Remove(ctx context.Context, key string) error {
	m.removedKeys = append(m.removedKeys, key)
	if m.removeFunc != nil {
		return m.removeFunc(ctx, key)
	}
	return nil
}

func (m *mockObjectStore) KeyFromURL(fileURL string) (string, error) {
	if m.keyFromURLFunc != nil {
		return m.keyFromURLFunc(fileURL)
	}
	return "uploads/" + fileURL, nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockDispatcher struct {
	dispatched []Notification
}

func (m *mockDispatcher) Dispatch(n Notification) {
	m.dispatched = append(m.dispatched, n)
}

type mockEmailSender struct {
	sendFunc func(ctx context.Context, msg port.EmailMessage) error
	sent     []port.EmailMessage
}

func (m *mockEmailSender) Send(ctx context.Context, msg port.EmailMessage) error {
	m.sent = append(m.sent, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func TestWorkflowService_Transition_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     TransitionRequest
		wantErr error
	}{
		{
			name:    "missing id",
			req:     TransitionRequest{Status: submission.StatusFinanceApproved},
			wantErr: submission.ErrMissingField,
		},
		{
			name:    "missing status",
			req:     TransitionRequest{ID: "sub-1"},
			wantErr: submission.ErrMissingField,
		},
		{
			name:    "status outside enumeration",
			req:     TransitionRequest{ID: "sub-1", Status: submission.Status("archived")},
			wantErr: submission.ErrInvalidStatus,
		},
		{
			name:    "status is case sensitive",
			req:     TransitionRequest{ID: "sub-1", Status: submission.Status("Approved")},
			wantErr: submission.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSubmissionRepo{}
			dispatcher := &mockDispatcher{}
			svc := NewWorkflowService(repo, &mockTxManager{}, dispatcher, false, &mockLogger{})

			_, err := svc.Transition(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Transition() error = %v, want %v", err, tt.wantErr)
			}
			if len(repo.appliedDecisions) != 0 {
				t.Errorf("decision applied despite validation failure")
			}
			if len(dispatcher.dispatched) != 0 {
				t.Errorf("notification dispatched despite validation failure")
			}
		})
	}
}

func TestWorkflowService_Transition_NotFound(t *testing.T) {
	repo := &mockSubmissionRepo{
		getByIDFunc: func(ctx context.Context, id string) (*submission.Submission, error) {
			return nil, nil
		},
	}
	svc := NewWorkflowService(repo, &mockTxManager{}, &mockDispatcher{}, false, &mockLogger{})

	_, err := svc.Transition(context.Background(), TransitionRequest{
		ID:     "missing",
		Status: submission.StatusFinanceApproved,
	})
	if !errors.Is(err, submission.ErrNotFound) {
		t.Fatalf("Transition() error = %v, want ErrNotFound", err)
	}
}

func TestWorkflowService_Transition_StageFields(t *testing.T) {
	tests := []struct {
		name     string
		status   submission.Status
		reviewer submission.Reviewer
		comment  string
	}{
		{"finance approves", submission.StatusFinanceApproved, submission.ReviewerFinance, "Looks fine"},
		{"finance rejects", submission.StatusFinanceRejected, submission.ReviewerFinance, "Missing receipts"},
		{"cofounder approves", submission.StatusCofounderApproved, submission.ReviewerCofounder, ""},
		{"cofounder rejects", submission.StatusCofounderRejected, submission.ReviewerCofounder, "Revise scope"},
		{"founder rejects", submission.StatusFounderRejected, submission.ReviewerFounder, "Over budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSubmissionRepo{}
			svc := NewWorkflowService(repo, &mockTxManager{}, &mockDispatcher{}, false, &mockLogger{})

			_, err := svc.Transition(context.Background(), TransitionRequest{
				ID:       "sub-1",
				Status:   tt.status,
				Reviewer: tt.reviewer,
				Comment:  tt.comment,
			})
			if err != nil {
				t.Fatalf("Transition() error = %v", err)
			}

			if len(repo.appliedDecisions) != 1 {
				t.Fatalf("applied %d decisions, want 1", len(repo.appliedDecisions))
			}
			d := repo.appliedDecisions[0]
			if d.Stage != tt.reviewer {
				t.Errorf("Stage = %q, want %q", d.Stage, tt.reviewer)
			}
			if d.Comment != tt.comment {
				t.Errorf("Comment = %q, want %q", d.Comment, tt.comment)
			}
			if d.ReviewedAt.IsZero() {
				t.Error("ReviewedAt not set")
			}
			if d.HasSignatures() {
				t.Errorf("signatures written outside founder approval: %+v", d)
			}
		})
	}
}

func TestWorkflowService_Transition_FounderApprovalSignatures(t *testing.T) {
	repo := &mockSubmissionRepo{}
	dispatcher := &mockDispatcher{}
	svc := NewWorkflowService(repo, &mockTxManager{}, dispatcher, false, &mockLogger{})

	_, err := svc.Transition(context.Background(), TransitionRequest{
		ID:                 "sub-1",
		Status:             submission.StatusApproved,
		Reviewer:           submission.ReviewerFounder,
		Comment:            "Signed off",
		SubmitterSignature: "data:image/png;base64,c3Vi",
		FounderSignature:   "data:image/png;base64,Zm91",
	})
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	d := repo.appliedDecisions[0]
	if d.SubmitterSignature != "data:image/png;base64,c3Vi" {
		t.Errorf("SubmitterSignature = %q", d.SubmitterSignature)
	}
	if d.FounderSignature != "data:image/png;base64,Zm91" {
		t.Errorf("FounderSignature = %q", d.FounderSignature)
	}

	if len(dispatcher.dispatched) != 1 {
		t.Fatalf("dispatched %d notifications, want 1", len(dispatcher.dispatched))
	}
	if dispatcher.dispatched[0].Kind != NotificationApproval {
		t.Errorf("Kind = %q, want approval", dispatcher.dispatched[0].Kind)
	}
}

func TestWorkflowService_Transition_UnrecognizedReviewer(t *testing.T) {
	repo := &mockSubmissionRepo{}
	dispatcher := &mockDispatcher{}
	svc := NewWorkflowService(repo, &mockTxManager{}, dispatcher, false, &mockLogger{})

	// Approval without the founder acting: status changes, but no stage
	// fields are written and no approval email fires.
	_, err := svc.Transition(context.Background(), TransitionRequest{
		ID:       "sub-1",
		Status:   submission.StatusApproved,
		Reviewer: submission.ReviewerCofounder,
		Comment:  "ignored",
	})
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	d := repo.appliedDecisions[0]
	if d.HasStage() {
		t.Errorf("stage fields written for unrecognized pair: %+v", d)
	}
	if d.Status != submission.StatusApproved {
		t.Errorf("Status = %q, want approved", d.Status)
	}
	if len(dispatcher.dispatched) != 0 {
		t.Errorf("dispatched %d notifications, want 0", len(dispatcher.dispatched))
	}
}

func TestWorkflowService_Transition_NotificationDecisions(t *testing.T) {
	tests := []struct {
		name      string
		status    submission.Status
		reviewer  submission.Reviewer
		wantKind  NotificationKind
		wantCount int
	}{
		{"finance rejection notifies", submission.StatusFinanceRejected, submission.ReviewerFinance, NotificationRejection, 1},
		{"cofounder rejection notifies", submission.StatusCofounderRejected, submission.ReviewerCofounder, NotificationRejection, 1},
		{"founder rejection notifies", submission.StatusFounderRejected, submission.ReviewerFounder, NotificationRejection, 1},
		{"founder approval notifies", submission.StatusApproved, submission.ReviewerFounder, NotificationApproval, 1},
		{"finance approval is silent", submission.StatusFinanceApproved, submission.ReviewerFinance, "", 0},
		{"cofounder approval is silent", submission.StatusCofounderApproved, submission.ReviewerCofounder, "", 0},
		{"approval without founder is silent", submission.StatusApproved, submission.ReviewerFinance, "", 0},
		{"approval without reviewer is silent", submission.StatusApproved, submission.Reviewer(""), "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &mockDispatcher{}
			svc := NewWorkflowService(&mockSubmissionRepo{}, &mockTxManager{}, dispatcher, false, &mockLogger{})

			_, err := svc.Transition(context.Background(), TransitionRequest{
				ID:       "sub-1",
				Status:   tt.status,
				Reviewer: tt.reviewer,
				Comment:  "note",
			})
			if err != nil {
				t.Fatalf("Transition() error = %v", err)
			}

			if len(dispatcher.dispatched) != tt.wantCount {
				t.Fatalf("dispatched %d notifications, want %d", len(dispatcher.dispatched), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}

			n := dispatcher.dispatched[0]
			if n.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", n.Kind, tt.wantKind)
			}
			if n.To != "jane@acme.com" {
				t.Errorf("To = %q, want stored submitter email", n.To)
			}
			if n.Subject != "Expense approval" {
				t.Errorf("Subject = %q, want stored subject", n.Subject)
			}
			if n.Reviewer != tt.reviewer {
				t.Errorf("Reviewer = %q, want %q", n.Reviewer, tt.reviewer)
			}
			if n.Comment != "note" {
				t.Errorf("Comment = %q, want %q", n.Comment, "note")
			}
		})
	}
}

func TestWorkflowService_Transition_StrictMode(t *testing.T) {
	tests := []struct {
		name    string
		current submission.Status
		next    submission.Status
		wantErr bool
	}{
		{"pending to finance approval", submission.StatusPending, submission.StatusFinanceApproved, false},
		{"pending directly to approved", submission.StatusPending, submission.StatusApproved, true},
		{"finance approved to cofounder rejection", submission.StatusFinanceApproved, submission.StatusCofounderRejected, false},
		{"rejected is terminal", submission.StatusFinanceRejected, submission.StatusCofounderApproved, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSubmissionRepo{
				getByIDFunc: func(ctx context.Context, id string) (*submission.Submission, error) {
					return &submission.Submission{ID: id, Email: "jane@acme.com", Status: tt.current}, nil
				},
			}
			svc := NewWorkflowService(repo, &mockTxManager{}, &mockDispatcher{}, true, &mockLogger{})

			_, err := svc.Transition(context.Background(), TransitionRequest{ID: "sub-1", Status: tt.next})
			if tt.wantErr {
				if !errors.Is(err, submission.ErrInvalidTransition) {
					t.Fatalf("Transition() error = %v, want ErrInvalidTransition", err)
				}
				if len(repo.appliedDecisions) != 0 {
					t.Error("decision applied despite strict-mode rejection")
				}
				return
			}
			if err != nil {
				t.Fatalf("Transition() error = %v", err)
			}
		})
	}
}

func TestWorkflowService_Transition_PermissiveModeAllowsSkips(t *testing.T) {
	// Behavioral parity with the original engine: any enumerated status is
	// accepted regardless of the current one.
	repo := &mockSubmissionRepo{
		getByIDFunc: func(ctx context.Context, id string) (*submission.Submission, error) {
			return &submission.Submission{ID: id, Email: "jane@acme.com", Status: submission.StatusPending}, nil
		},
	}
	svc := NewWorkflowService(repo, &mockTxManager{}, &mockDispatcher{}, false, &mockLogger{})

	_, err := svc.Transition(context.Background(), TransitionRequest{
		ID:       "sub-1",
		Status:   submission.StatusApproved,
		Reviewer: submission.ReviewerFounder,
	})
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if len(repo.appliedDecisions) != 1 {
		t.Fatalf("applied %d decisions, want 1", len(repo.appliedDecisions))
	}
}

func TestWorkflowService_Transition_StoreFailure(t *testing.T) {
	storeErr := errors.New("disk full")
	repo := &mockSubmissionRepo{
		applyDecisionFunc: func(ctx context.Context, id string, decision submission.Decision) error {
			return storeErr
		},
	}
	dispatcher := &mockDispatcher{}
	svc := NewWorkflowService(repo, &mockTxManager{}, dispatcher, false, &mockLogger{})

	_, err := svc.Transition(context.Background(), TransitionRequest{
		ID:       "sub-1",
		Status:   submission.StatusFinanceRejected,
		Reviewer: submission.ReviewerFinance,
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("Transition() error = %v, want wrapped store error", err)
	}
	if len(dispatcher.dispatched) != 0 {
		t.Error("notification dispatched despite failed update")
	}
}

func TestWorkflowService_Transition_ReadsContactBeforeWrite(t *testing.T) {
	var order []string
	repo := &mockSubmissionRepo{
		getByIDFunc: func(ctx context.Context, id string) (*submission.Submission, error) {
			order = append(order, "read")
			return &submission.Submission{ID: id, Email: "jane@acme.com", Status: submission.StatusPending}, nil
		},
		applyDecisionFunc: func(ctx context.Context, id string, decision submission.Decision) error {
			order = append(order, "write")
			return nil
		},
	}
	txMgr := &mockTxManager{}
	svc := NewWorkflowService(repo, txMgr, &mockDispatcher{}, false, &mockLogger{})

	if _, err := svc.Transition(context.Background(), TransitionRequest{
		ID:       "sub-1",
		Status:   submission.StatusFinanceRejected,
		Reviewer: submission.ReviewerFinance,
	}); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	if len(order) < 2 || order[0] != "read" || order[1] != "write" {
		t.Errorf("operation order = %v, want read before write", order)
	}
	if txMgr.calls != 1 {
		t.Errorf("transaction used %d times, want 1", txMgr.calls)
	}
}

func TestWorkflowService_TransitionTimeSource(t *testing.T) {
	fixed := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)
	repo := &mockSubmissionRepo{}
	svc := NewWorkflowService(repo, &mockTxManager{}, &mockDispatcher{}, false, &mockLogger{}).(*workflowServiceImpl)
	svc.now = func() time.Time { return fixed }

	if _, err := svc.Transition(context.Background(), TransitionRequest{
		ID:       "sub-1",
		Status:   submission.StatusFinanceApproved,
		Reviewer: submission.ReviewerFinance,
	}); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	if got := repo.appliedDecisions[0].ReviewedAt; !got.Equal(fixed) {
		t.Errorf("ReviewedAt = %v, want %v", got, fixed)
	}
}
