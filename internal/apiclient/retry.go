package apiclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryableStatus reports whether a response code is worth another attempt.
func RetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// NewBackOff returns an exponential policy starting at base and doubling,
// without jitter, that gives up after retries attempts.
func NewBackOff(retries int, base time.Duration) backoff.BackOff {
	if retries <= 0 {
		return &backoff.StopBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithMaxRetries(b, uint64(retries))
}

// Retry runs op until it succeeds, fails with an error retryable rejects,
// the policy gives up or ctx is done.
func Retry(ctx context.Context, policy backoff.BackOff, retryable func(error) bool, logger *slog.Logger, op func() error) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := op()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(policy, ctx), func(err error, delay time.Duration) {
		if logger != nil {
			logger.Debug("retrying", "attempt", attempt, "delay", delay, "err", err)
		}
	})
}

// Transport is an http.RoundTripper that resends requests answered with 429
// or 5xx. Requests whose body cannot be replayed are sent once.
type Transport struct {
	Base    http.RoundTripper
	Retries int
	Backoff time.Duration
	Logger  *slog.Logger
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper. When retries run out the last
// response is returned as is.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Retries <= 0 || (req.Body != nil && req.Body != http.NoBody && req.GetBody == nil) {
		return t.base().RoundTrip(req)
	}

	var last *http.Response
	sent := false
	err := Retry(req.Context(), NewBackOff(t.Retries, t.Backoff), isStatusRetryable, t.Logger, func() error {
		if last != nil {
			discard(last)
			last = nil
		}

		out := req
		if sent {
			out = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return err
				}
				out.Body = body
			}
		}
		sent = true

		resp, err := t.base().RoundTrip(out)
		if err != nil {
			return err
		}
		last = resp
		if RetryableStatus(resp.StatusCode) {
			return &StatusError{Method: req.Method, URL: req.URL.String(), Code: resp.StatusCode}
		}
		return nil
	})

	var statusErr *StatusError
	if err == nil || errors.As(err, &statusErr) {
		return last, nil
	}
	if last != nil {
		discard(last)
	}
	return nil, err
}

func isStatusRetryable(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Retryable()
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
