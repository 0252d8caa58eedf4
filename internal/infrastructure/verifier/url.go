package verifier

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/infrastructure/config"
)

// URL checks reachability of plain http(s) resource identifiers such as code
// repositories and multimedia locations.
type URL struct {
	client  *http.Client
	retries uint64
}

// NewURL creates a URL verifier from the verify configuration.
func NewURL(cfg config.VerifyConfig) *URL {
	return &URL{
		client:  &http.Client{Timeout: cfg.Timeout()},
		retries: uint64(cfg.Retries()),
	}
}

// Exists reports whether the URL is reachable.
func (v *URL) Exists(ctx context.Context, identifier string) (bool, error) {
	u, err := url.Parse(identifier)
	if err != nil {
		return false, &entities.VerificationError{
			Kind:       entities.VerificationMalformed,
			Identifier: identifier,
			Err:        err,
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false, &entities.VerificationError{
			Kind:       entities.VerificationUnsupported,
			Identifier: identifier,
		}
	}
	if u.Host == "" {
		return false, &entities.VerificationError{
			Kind:       entities.VerificationMalformed,
			Identifier: identifier,
		}
	}
	return headWithRetry(ctx, v.client, identifier, v.retries, identifier)
}

// asVerificationError unwraps err into a VerificationError if one is in the
// chain.
func asVerificationError(err error, target **entities.VerificationError) bool {
	return errors.As(err, target)
}
