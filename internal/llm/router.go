package llm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	defaultTimeout     = 60 * time.Second
	busyFailureMessage = "an LLM request is already in flight; try again when it completes"
	timeoutFormat      = "LLM request timed out after %d seconds"
)

// Router dispatches prompts to the configured provider and normalizes the
// heterogeneous response shapes into a single text-or-failure outcome. At most
// one request may be in flight at a time; a second Dispatch is rejected with a
// busy failure rather than queued, so a stale response can never race a fresh
// one into shared state.
type Router struct {
	settings   Settings
	httpClient *http.Client
	logger     *zap.Logger
	inFlight   atomic.Bool
}

// NewRouter builds a router for one settings snapshot.
func NewRouter(settings Settings, logger *zap.Logger) *Router {
	if settings.Timeout <= 0 {
		settings.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		settings:   settings,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Settings returns the snapshot the router was built with.
func (r *Router) Settings() Settings { return r.settings }

// Dispatch sends the prompt (combined with the captured text) to the provider
// and returns the extracted reply text. Every failure mode — validation,
// network, timeout, bad status, undecodable or shapeless body — comes back as
// a *Failure; the error is never a raw transport error.
func (r *Router) Dispatch(ctx context.Context, prompt string, capturedText string) (string, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return "", newFailure(FailureBusy, busyFailureMessage)
	}
	defer r.inFlight.Store(false)

	request, buildFailure := buildRequest(r.settings, prompt, capturedText, r.logger)
	if buildFailure != nil {
		return "", buildFailure
	}

	r.logger.Debug("dispatching LLM request",
		zap.String("provider", string(request.Provider)),
		zap.String("url", request.URL),
		zap.String("model", r.settings.Model))

	requestCtx, cancel := context.WithTimeout(ctx, r.settings.Timeout)
	defer cancel()

	httpRequest, requestErr := http.NewRequestWithContext(requestCtx, http.MethodPost, request.URL, bytes.NewReader(request.Body))
	if requestErr != nil {
		return "", newFailure(FailureConfig, "build LLM request: %v", requestErr)
	}
	for name, value := range request.Headers {
		httpRequest.Header.Set(name, value)
	}

	httpResponse, httpErr := r.httpClient.Do(httpRequest)
	if httpErr != nil {
		if isTimeout(httpErr) {
			return "", newFailure(FailureTimeout, timeoutFormat, int(r.settings.Timeout.Seconds()))
		}
		return "", newFailure(FailureNetwork, "error communicating with LLM: %v", httpErr)
	}
	defer func(closer io.ReadCloser) { _ = closer.Close() }(httpResponse.Body)

	body, readErr := io.ReadAll(httpResponse.Body)
	if readErr != nil {
		if isTimeout(readErr) {
			return "", newFailure(FailureTimeout, timeoutFormat, int(r.settings.Timeout.Seconds()))
		}
		return "", newFailure(FailureNetwork, "read LLM response: %v", readErr)
	}

	if httpResponse.StatusCode != http.StatusOK {
		r.logger.Warn("LLM request failed",
			zap.Int("status", httpResponse.StatusCode),
			zap.String("body", excerpt(body)))
		return "", newFailure(FailureStatus, "%s", statusFailureMessage(httpResponse.StatusCode, body))
	}

	content, extractFailure := extractContent(request.Provider, body)
	if extractFailure != nil {
		return "", extractFailure
	}
	return content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
