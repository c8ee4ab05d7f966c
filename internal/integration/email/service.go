// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// Service handles email queueing operations.
type Service struct {
	queue      adapter.EmailQueueRepository
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		appBaseURL: appBaseURL,
	}
}

// QueuePasswordResetEmail queues a password reset email.
func (s *Service) QueuePasswordResetEmail(ctx context.Context, input adapter.QueuePasswordResetInput) error {
	subject := "Reset your password - Manna"

	templateData := map[string]interface{}{
		"user_name":  input.UserName,
		"reset_url":  input.ResetURL,
		"expires_in": input.ExpiresIn,
	}

	job := entity.NewEmailJob(
		entity.TemplatePasswordReset,
		input.UserEmail,
		input.UserName,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue password reset email",
			err,
		)
	}

	return nil
}

// QueueSyncFailedEmail queues a notification that a bank connection needs attention.
func (s *Service) QueueSyncFailedEmail(ctx context.Context, input adapter.QueueSyncFailedInput) error {
	subject := fmt.Sprintf("Action needed: %s stopped syncing - Manna", input.InstitutionName)

	relinkURL := input.RelinkURL
	if relinkURL == "" {
		relinkURL = s.appBaseURL + "/settings/connections"
	}

	templateData := map[string]interface{}{
		"user_name":        input.UserName,
		"institution_name": input.InstitutionName,
		"reason":           input.Reason,
		"relink_url":       relinkURL,
	}

	job := entity.NewEmailJob(
		entity.TemplateSyncFailed,
		input.UserEmail,
		input.UserName,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue sync failure email",
			err,
		)
	}

	return nil
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
