// Package sender delivers signed payment notifications to a ledger webhook.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/dto"
	"github.com/GlebRadaev/ledger/pkg/clients"
)

const (
	maxAttempts   = 3
	retryInterval = time.Second * 1
)

type Result struct {
	TransactionID string
	StatusCode    int
	Attempts      int
	Body          string
	Err           error
}

// Delivered reports whether the ledger accepted the notification.
func (r Result) Delivered() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

type Service struct {
	url           string
	client        clients.HTTPClientI
	workers       int
	retryInterval time.Duration
}

func New(url string, client clients.HTTPClientI, workers int) *Service {
	return &Service{
		url:           url,
		client:        client,
		workers:       workers,
		retryInterval: retryInterval,
	}
}

// SendAll delivers every notification through a worker pool and returns
// results in input order.
func (s *Service) SendAll(ctx context.Context, notifications []domain.Notification) []Result {
	results := make([]Result, len(notifications))
	wp := NewWorkerPool(s.workers)

	var g errgroup.Group
	for i, n := range notifications {
		g.Go(func() error {
			err := wp.AddTask(ctx, func() error {
				results[i] = s.Send(ctx, n)
				return results[i].Err
			})
			if err != nil {
				results[i] = Result{TransactionID: n.TransactionID, Err: err}
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Warn("Not all notifications were queued", zap.Error(err))
	}
	wp.Close()

	return results
}

// Send posts one notification. Transport errors, 5xx and 429 are retried;
// any other status is final.
func (s *Service) Send(ctx context.Context, n domain.Notification) Result {
	res := Result{TransactionID: n.TransactionID}

	body, err := json.Marshal(dto.PaymentWebhookRequestDTO{
		TransactionID: &n.TransactionID,
		AccountID:     &n.AccountID,
		UserID:        &n.UserID,
		Amount:        &n.Amount,
		Signature:     &n.Signature,
	})
	if err != nil {
		res.Err = fmt.Errorf("failed to encode notification: %w", err)
		return res
	}
	headers := http.Header{"Content-Type": []string{"application/json"}}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		res.Attempts = attempt

		statusCode, respBody, respHeaders, err := s.client.Post(s.url, headers, body)
		res.StatusCode, res.Body, res.Err = statusCode, string(respBody), err

		wait := s.retryInterval * time.Duration(attempt)
		switch {
		case err != nil:
			zap.L().Warn("Delivery failed, retrying",
				zap.String("transactionID", n.TransactionID), zap.Int("attempt", attempt), zap.Error(err))
		case statusCode == http.StatusTooManyRequests:
			wait = retryAfter(respHeaders, wait)
			zap.L().Warn("Rate limit detected, retrying",
				zap.String("transactionID", n.TransactionID), zap.Int("attempt", attempt), zap.Duration("retryAfter", wait))
		case statusCode >= http.StatusInternalServerError:
			zap.L().Warn("Server error, retrying",
				zap.String("transactionID", n.TransactionID), zap.Int("attempt", attempt), zap.Int("status", statusCode))
		default:
			return res
		}

		if attempt == maxAttempts {
			break
		}
		if err := sleep(ctx, wait); err != nil {
			res.Err = err
			return res
		}
	}

	if res.Err == nil {
		res.Err = fmt.Errorf("giving up on %s after %d attempts: status %d", n.TransactionID, maxAttempts, res.StatusCode)
	} else {
		res.Err = fmt.Errorf("giving up on %s after %d attempts: %w", n.TransactionID, maxAttempts, res.Err)
	}
	return res
}

func retryAfter(headers http.Header, fallback time.Duration) time.Duration {
	if seconds, err := strconv.Atoi(headers.Get("Retry-After")); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
