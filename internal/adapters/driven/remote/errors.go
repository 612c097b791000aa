// Package remote maps transport and HTTP failures of remote AI providers
// onto the domain error categories.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

// maxBodyInError bounds how much of a response body is quoted in errors.
const maxBodyInError = 512

// StatusError converts a non-2xx response into a domain error.
// 401 and 403 become domain.ErrAuthFailed; anything else domain.ErrRemoteService.
func StatusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxBodyInError {
		msg = msg[:maxBodyInError] + "..."
	}

	sentinel := domain.ErrRemoteService
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		sentinel = domain.ErrAuthFailed
	}
	if msg == "" {
		return fmt.Errorf("%w: %s returned status %d", sentinel, provider, status)
	}
	return fmt.Errorf("%w: %s returned status %d: %s", sentinel, provider, status, msg)
}

// TransportError wraps a failed request. Context cancellation is kept
// recognisable through errors.Is.
func TransportError(provider string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", domain.ErrRemoteService, provider, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrRemoteService, provider, err)
}

// EmptyResponse reports a reply with no usable content.
func EmptyResponse(provider string) error {
	return fmt.Errorf("%w from %s", domain.ErrEmptyResponse, provider)
}

// MissingCredential reports a provider constructed without its API key.
func MissingCredential(provider, envVar string) error {
	if envVar == "" {
		return fmt.Errorf("%w for %s", domain.ErrMissingCredential, provider)
	}
	return fmt.Errorf("%w for %s: set %s", domain.ErrMissingCredential, provider, envVar)
}
