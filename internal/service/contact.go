package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"estate/internal/model"
	"estate/internal/observability"
)

// ContactSuccessMessage is shown once an enquiry has been sent
const ContactSuccessMessage = "Message sent successfully! An agent will contact you soon."

// ContactService accepts contact-agent enquiries
type ContactService struct {
	delay   DelayStrategy
	logger  *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(delay DelayStrategy, logger *slog.Logger, metrics *observability.Metrics) *ContactService {
	if delay == nil {
		delay = NoDelay{}
	}
	return &ContactService{delay: delay, logger: logger, metrics: metrics, now: time.Now}
}

// Submit rejects incomplete forms immediately, then waits the send delay
func (s *ContactService) Submit(ctx context.Context, req model.ContactRequest) (*model.ContactReceipt, error) {
	if err := requireFields(
		[2]string{"name", req.Name},
		[2]string{"email", req.Email},
		[2]string{"message", req.Message},
	); err != nil {
		s.metrics.ObserveContact("rejected")
		return nil, err
	}

	task := After(ctx, s.delay, func(context.Context) (*model.ContactReceipt, error) {
		return &model.ContactReceipt{
			ID:          uuid.NewString(),
			Message:     ContactSuccessMessage,
			SubmittedAt: s.now(),
		}, nil
	})
	receipt, err := task.Wait()
	if err != nil {
		s.metrics.ObserveContact("cancelled")
		return nil, err
	}

	s.metrics.ObserveContact("sent")
	s.logger.Info("contact enquiry sent",
		"enquiry_id", receipt.ID,
		"email", strings.TrimSpace(req.Email),
		"property_interest", req.PropertyInterest,
	)
	return receipt, nil
}
