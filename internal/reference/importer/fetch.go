package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxPayloadBytes = 64 << 20

// fetch downloads the CSV at url. Transport errors, 429 and 5xx responses are
// retried with exponential backoff; other failures are permanent.
func (i *Importer) fetch(ctx context.Context, url string) (string, error) {
	var body string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "text/csv, text/plain")

		resp, err := i.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
		if err != nil {
			return err
		}
		if strings.HasPrefix(strings.TrimSpace(string(data)), "<") {
			return backoff.Permanent(errHTMLPayload)
		}
		body = string(data)
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = i.retryInterval
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		i.logger.WarnContext(ctx, "retrying reference fetch", "error", err, "wait", wait)
	}
	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(policy, i.maxRetries), ctx), notify)
	if err != nil {
		return "", err
	}
	return body, nil
}
