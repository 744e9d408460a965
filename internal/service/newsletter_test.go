package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate/internal/logger"
	"estate/internal/model"
)

func TestNewsletter_Subscribe(t *testing.T) {
	svc := NewNewsletterService(NoDelay{}, logger.Discard(), nil)
	first := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	receipt, err := svc.Subscribe(context.Background(), model.NewsletterRequest{Email: " Jane@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, NewsletterSuccessMessage, receipt.Message)
	assert.Equal(t, "jane@example.com", receipt.Email)
	assert.Equal(t, first, receipt.SubscribedAt)

	svc.now = func() time.Time { return first.Add(time.Hour) }
	again, err := svc.Subscribe(context.Background(), model.NewsletterRequest{Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first, again.SubscribedAt, "resubscribing keeps the original signup")
	assert.Equal(t, 1, svc.Subscribers())
}

func TestNewsletter_InvalidEmailRejectedImmediately(t *testing.T) {
	svc := NewNewsletterService(FixedDelay(time.Hour), logger.Discard(), nil)

	tests := []struct {
		name  string
		email string
	}{
		{name: "blank", email: "   "},
		{name: "no at sign", email: "jane.example.com"},
		{name: "display name", email: "Jane <jane@example.com>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			_, err := svc.Subscribe(context.Background(), model.NewsletterRequest{Email: tt.email})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{"email"}, verr.Fields)
			assert.Less(t, time.Since(start), time.Second)
		})
	}
	assert.Zero(t, svc.Subscribers())
}

func TestNewsletter_CancelledSignupIsNotRecorded(t *testing.T) {
	svc := NewNewsletterService(FixedDelay(time.Hour), logger.Discard(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Subscribe(ctx, model.NewsletterRequest{Email: "jane@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, svc.Subscribers())
}
