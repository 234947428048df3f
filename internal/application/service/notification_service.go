package service

import (
	"context"
	"fmt"

	"github.com/avenford/workflow-backend/internal/application/port"
	"github.com/avenford/workflow-backend/internal/domain/submission"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NotificationKind identifies the email template to send
type NotificationKind string

const (
	NotificationApproval  NotificationKind = "approval"
	NotificationRejection NotificationKind = "rejection"
)

// Notification carries everything needed to render and address one
// submitter email
type Notification struct {
	Kind         NotificationKind
	SubmissionID string
	To           string
	Name         string
	Subject      string
	Reviewer     submission.Reviewer
	Comment      string
}

// Decide maps a transition outcome to a notification action. Every
// rejection notifies the submitter regardless of which stage rejected;
// final approval notifies only when the founder signs off. Intermediate
// approvals advance internal state silently.
func Decide(status submission.Status, reviewer submission.Reviewer) (NotificationKind, bool) {
	if status.IsRejection() {
		return NotificationRejection, true
	}
	if status == submission.StatusApproved && reviewer == submission.ReviewerFounder {
		return NotificationApproval, true
	}
	return "", false
}

// NotificationDispatcher hands a notification off for delivery without
// blocking the caller. Delivery failures are the dispatcher's to log;
// they never reach the transition that produced the notification.
type NotificationDispatcher interface {
	Dispatch(n Notification)
}

// NotificationService renders and sends submitter emails
type NotificationService interface {
	Send(ctx context.Context, n Notification) error
}

type notificationServiceImpl struct {
	sender     port.EmailSender
	senderName string
	logger     Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(sender port.EmailSender, senderName string, logger Logger) NotificationService {
	return &notificationServiceImpl{
		sender:     sender,
		senderName: senderName,
		logger:     logger,
	}
}

// Send renders the notification into an email and delivers it
func (s *notificationServiceImpl) Send(ctx context.Context, n Notification) error {
	s.logger.Info("Sending notification",
		"submission_id", n.SubmissionID,
		"kind", string(n.Kind),
		"to", n.To,
	)

	msg := port.EmailMessage{To: n.To}

	switch n.Kind {
	case NotificationApproval:
		msg.Subject = fmt.Sprintf("Your submission %q has been approved", n.Subject)
		msg.TextBody = s.buildApprovalBody(n)
		msg.HTMLBody = s.buildApprovalHTML(n)
	case NotificationRejection:
		msg.Subject = fmt.Sprintf("Your submission %q has been rejected", n.Subject)
		msg.TextBody = s.buildRejectionBody(n)
		msg.HTMLBody = s.buildRejectionHTML(n)
	default:
		return fmt.Errorf("unknown notification kind: %q", n.Kind)
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("Failed to send notification",
			"error", err,
			"submission_id", n.SubmissionID,
			"kind", string(n.Kind),
		)
		return fmt.Errorf("send notification: %w", err)
	}

	s.logger.Info("Notification sent successfully",
		"submission_id", n.SubmissionID,
		"kind", string(n.Kind),
	)

	return nil
}

func (s *notificationServiceImpl) buildApprovalBody(n Notification) string {
	return fmt.Sprintf(
		"Dear %s,\n\nYour submission %q has received final approval and is now signed off.\n\nBest regards,\n%s",
		n.Name, n.Subject, s.senderName,
	)
}

func (s *notificationServiceImpl) buildApprovalHTML(n Notification) string {
	return fmt.Sprintf(
		"<p>Dear %s,</p><p>Your submission <strong>%s</strong> has received final approval and is now signed off.</p><p>Best regards,<br>%s</p>",
		n.Name, n.Subject, s.senderName,
	)
}

func (s *notificationServiceImpl) buildRejectionBody(n Notification) string {
	body := fmt.Sprintf(
		"Dear %s,\n\nYour submission %q has been rejected during the %s review.",
		n.Name, n.Subject, n.Reviewer,
	)
	if n.Comment != "" {
		body += fmt.Sprintf("\n\nReviewer comment: %s", n.Comment)
	}
	body += fmt.Sprintf("\n\nBest regards,\n%s", s.senderName)
	return body
}

func (s *notificationServiceImpl) buildRejectionHTML(n Notification) string {
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your submission <strong>%s</strong> has been rejected during the <strong>%s</strong> review.</p>",
		n.Name, n.Subject, n.Reviewer,
	)
	if n.Comment != "" {
		body += fmt.Sprintf("<p>Reviewer comment: %s</p>", n.Comment)
	}
	body += fmt.Sprintf("<p>Best regards,<br>%s</p>", s.senderName)
	return body
}
