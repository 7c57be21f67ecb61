// Package remote talks to the booking platform's sync endpoint: one write
// operation per record, success or failure, nothing else.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"mariiahub/internal/config"
	"mariiahub/internal/models"
)

// SubmissionError reports a failed remote submission. Transport errors and
// server rejections are deliberately indistinguishable to callers; the
// engine treats both the same way.
type SubmissionError struct {
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submission rejected: status %d", e.StatusCode)
	}
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// HTTPSubmitter posts booking records as JSON to the sync endpoint.
type HTTPSubmitter struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
	retry    RetryPolicy
	logger   *zerolog.Logger
}

func NewHTTPSubmitter(cfg config.SyncConfig, logger *zerolog.Logger) *HTTPSubmitter {
	var limiter *rate.Limiter
	if cfg.RateRPS > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), burst)
	}

	return &HTTPSubmitter{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.SubmitTimeoutSeconds) * time.Second,
		},
		limiter: limiter,
		retry:   RetryPolicy{MaxAttempts: cfg.MaxAttempts},
		logger:  logger,
	}
}

// Submit sends one record. Transient transport errors are retried per the
// policy; a definitive server rejection (4xx) is returned immediately.
func (s *HTTPSubmitter) Submit(ctx context.Context, record *models.BookingRecord) error {
	attempts := s.retry.attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := s.submitOnce(ctx, record)
		if err == nil {
			return nil
		}
		lastErr = err

		var se *SubmissionError
		if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 {
			return err
		}
		if attempt == attempts {
			break
		}

		s.logger.Warn().
			Err(err).
			Str("booking_id", record.ID).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("Submission attempt failed")

		select {
		case <-ctx.Done():
			return &SubmissionError{Err: ctx.Err()}
		case <-time.After(s.retry.Delay(attempt)):
		}
	}
	return lastErr
}

func (s *HTTPSubmitter) submitOnce(ctx context.Context, record *models.BookingRecord) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return &SubmissionError{Err: err}
		}
	}

	body, err := json.Marshal(record)
	if err != nil {
		return &SubmissionError{Err: fmt.Errorf("encode record: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return &SubmissionError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &SubmissionError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &SubmissionError{StatusCode: resp.StatusCode}
}
