// Package verifier provides resource-existence checkers for the verifier
// registry. Each checker is pluggable per resource type and independently
// testable.
package verifier

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/cenkalti/backoff/v4"

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/infrastructure/config"
)

// reDOI matches the modern Crossref DOI syntax: a 10.xxxx prefix and a
// non-empty suffix.
var reDOI = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// DOI checks DOI existence by resolving against a DOI proxy (doi.org by
// default). A 404/410 from the resolver means the DOI is not registered.
type DOI struct {
	baseURL string
	client  *http.Client
	retries uint64
}

// NewDOI creates a DOI verifier from the verify configuration.
func NewDOI(cfg config.VerifyConfig) *DOI {
	return &DOI{
		baseURL: cfg.DOIBaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout(),
			// The resolver answers with a redirect to the landing page;
			// following it is unnecessary to establish existence.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		retries: uint64(cfg.Retries()),
	}
}

// Exists reports whether the DOI resolves.
func (v *DOI) Exists(ctx context.Context, identifier string) (bool, error) {
	if !reDOI.MatchString(identifier) {
		return false, &entities.VerificationError{
			Kind:       entities.VerificationMalformed,
			Identifier: identifier,
		}
	}
	return headWithRetry(ctx, v.client, v.baseURL+"/"+identifier, v.retries, identifier)
}

// headWithRetry issues a HEAD request with bounded exponential-backoff
// retries, falling back to GET when the server rejects HEAD.
func headWithRetry(ctx context.Context, client *http.Client, url string, retries uint64, identifier string) (bool, error) {
	var exists bool

	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return backoff.Permanent(&entities.VerificationError{
				Kind:       entities.VerificationMalformed,
				Identifier: identifier,
				Err:        err,
			})
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("checking %s: %w", url, err)
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusMethodNotAllowed {
			req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return backoff.Permanent(err)
			}
			resp, err = client.Do(req)
			if err != nil {
				return fmt.Errorf("checking %s: %w", url, err)
			}
			resp.Body.Close()
		}

		switch {
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
			exists = false
		case resp.StatusCode >= 500:
			return fmt.Errorf("checking %s: status %d", url, resp.StatusCode)
		default:
			exists = true
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		var ve *entities.VerificationError
		if ok := asVerificationError(err, &ve); ok {
			return false, ve
		}
		return false, &entities.VerificationError{
			Kind:       entities.VerificationUnreachable,
			Identifier: identifier,
			Err:        err,
		}
	}
	return exists, nil
}
