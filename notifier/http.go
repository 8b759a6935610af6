// Package notifier provides the HTTP client that mirrors local barcode
// releases to the remote label authority. The client is best-effort by
// contract: every failure is logged and swallowed, a bounded timeout
// caps each attempt, and no error ever reaches the caller.
package notifier

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ckocevar-dev/rxlog/barcode"
	"github.com/ckocevar-dev/rxlog/register"
)

const (
	releasePath    = "/api/barcodes/release"
	defaultTimeout = 3 * time.Second

	logMsgNotifyFailed      = "release notification failed"
	logMsgNotifyRejected    = "release notification rejected by remote authority"
	logMsgNotifySucceeded   = "release notification delivered"
	logMsgBuildNotifyFailed = "failed to build release notification request"
	logAttrError            = "error"
	logAttrCode             = "code"
	logAttrStatusCode       = "status_code"
	logAttrURL              = "url"
)

type releasePayload struct {
	Code string `json:"code"`
}

// HTTPReleaseNotifier posts released codes to the remote label authority.
// The zero value is not usable; construct it with NewHTTPReleaseNotifier.
type HTTPReleaseNotifier struct {
	baseURL string
	client  *http.Client
	logger  barcode.Logger
}

var _ register.ReleaseNotifier = (*HTTPReleaseNotifier)(nil)

// Option defines a functional option for configuring an HTTPReleaseNotifier.
type Option func(*HTTPReleaseNotifier)

// WithTimeout caps how long a single notification attempt may take.
// The default is three seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(n *HTTPReleaseNotifier) {
		n.client.Timeout = timeout
	}
}

// WithLogger enables logging of delivery outcomes and swallowed failures.
func WithLogger(logger barcode.Logger) Option {
	return func(n *HTTPReleaseNotifier) {
		n.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client. The configured
// timeout (default or from WithTimeout) is applied to the new client.
func WithHTTPClient(client *http.Client) Option {
	return func(n *HTTPReleaseNotifier) {
		timeout := n.client.Timeout
		n.client = client
		n.client.Timeout = timeout
	}
}

// NewHTTPReleaseNotifier creates a notifier targeting the remote label
// authority at baseURL (scheme and host, without the release path).
func NewHTTPReleaseNotifier(baseURL string, options ...Option) *HTTPReleaseNotifier {
	n := &HTTPReleaseNotifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}

	for _, option := range options {
		option(n)
	}

	return n
}

// NotifyReleased posts the released code to the remote authority.
// Blank codes are ignored. Failures of any kind (marshalling, transport,
// non-2xx responses) are logged and swallowed; the caller's state is
// already committed and must not be affected.
func (n *HTTPReleaseNotifier) NotifyReleased(ctx context.Context, code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}

	url := n.baseURL + releasePath

	body, marshalErr := jsoniter.Marshal(releasePayload{Code: code})
	if marshalErr != nil {
		n.logError(logMsgBuildNotifyFailed, marshalErr, logAttrCode, code)
		return
	}

	request, buildErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if buildErr != nil {
		n.logError(logMsgBuildNotifyFailed, buildErr, logAttrCode, code, logAttrURL, url)
		return
	}
	request.Header.Set("Content-Type", "application/json")

	response, doErr := n.client.Do(request)
	if doErr != nil {
		n.logError(logMsgNotifyFailed, doErr, logAttrCode, code, logAttrURL, url)
		return
	}

	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		n.logWarn(logMsgNotifyRejected, logAttrCode, code, logAttrStatusCode, response.StatusCode)
		return
	}

	n.logDebug(logMsgNotifySucceeded, logAttrCode, code)
}

func (n *HTTPReleaseNotifier) logError(message string, err error, args ...any) {
	if n.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		n.logger.Error(message, allArgs...)
	}
}

func (n *HTTPReleaseNotifier) logWarn(message string, args ...any) {
	if n.logger != nil {
		n.logger.Warn(message, args...)
	}
}

func (n *HTTPReleaseNotifier) logDebug(message string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(message, args...)
	}
}
