package service

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"estate/internal/model"
	"estate/internal/observability"
)

// NewsletterSuccessMessage is shown once an address is subscribed
const NewsletterSuccessMessage = "Successfully subscribed to our newsletter!"

// NewsletterService keeps the newsletter subscriber list in memory
type NewsletterService struct {
	delay   DelayStrategy
	logger  *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time

	mu          sync.Mutex
	subscribers map[string]time.Time
}

// NewNewsletterService creates a new newsletter service
func NewNewsletterService(delay DelayStrategy, logger *slog.Logger, metrics *observability.Metrics) *NewsletterService {
	if delay == nil {
		delay = NoDelay{}
	}
	return &NewsletterService{
		delay:       delay,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
		subscribers: make(map[string]time.Time),
	}
}

// Subscribe validates the address, waits the signup delay and records it.
// Subscribing twice keeps the first signup time.
func (s *NewsletterService) Subscribe(ctx context.Context, req model.NewsletterRequest) (*model.NewsletterReceipt, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := requireFields([2]string{"email", email}); err != nil {
		s.metrics.ObserveNewsletter("rejected")
		return nil, err
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		s.metrics.ObserveNewsletter("rejected")
		return nil, &ValidationError{Fields: []string{"email"}, Reason: "invalid email address"}
	}

	task := After(ctx, s.delay, func(context.Context) (*model.NewsletterReceipt, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		at, ok := s.subscribers[email]
		if !ok {
			at = s.now()
			s.subscribers[email] = at
		}
		return &model.NewsletterReceipt{Email: email, Message: NewsletterSuccessMessage, SubscribedAt: at}, nil
	})
	receipt, err := task.Wait()
	if err != nil {
		s.metrics.ObserveNewsletter("cancelled")
		return nil, err
	}

	s.metrics.ObserveNewsletter("subscribed")
	s.logger.Info("newsletter subscription", "email", email)
	return receipt, nil
}

// Subscribers reports how many addresses are on the list
func (s *NewsletterService) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}
