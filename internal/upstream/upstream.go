// Package upstream talks to the billing source-of-truth API that lists the
// codes still outstanding for a service type.
package upstream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/pkg/clients"
	"go.uber.org/zap"
)

var (
	// ErrUnavailable upstream rejected or failed the request; the submission
	// that needed it must be aborted.
	ErrUnavailable = errors.New("validation source unavailable")
	// ErrUpstreamTimeout the bounded call exceeded its deadline. Retryable by
	// the caller.
	ErrUpstreamTimeout = errors.New("upstream timeout")
)

// CredentialProvider supplies the Basic auth pair for upstream calls. It is
// injected so tests and multi-tenant setups can swap credential sources.
type CredentialProvider interface {
	BasicAuth() (login, password string)
}

type StaticCredentials struct {
	Login    string
	Password string
}

func (c StaticCredentials) BasicAuth() (string, string) {
	return c.Login, c.Password
}

type Client struct {
	baseURL string
	creds   CredentialProvider
	client  clients.HTTPClientI
	timeout time.Duration
}

func New(baseURL string, creds CredentialProvider, client clients.HTTPClientI, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		client:  client,
		timeout: timeout,
	}
}

// listResponse covers both upstream shapes: {"data": "a,b,c"} and
// {"data": {"a": ..., "b": ...}}.
type listResponse struct {
	Data json.RawMessage `json:"data"`
}

// OutstandingCodes fetches the valid/outstanding code list for a service
// type and normalizes it to a list of strings.
func (c *Client) OutstandingCodes(ctx context.Context, serviceType string) ([]string, error) {
	info, ok := domain.ServiceByID(serviceType)
	if !ok {
		return nil, fmt.Errorf("unknown service type: %s", serviceType)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.baseURL + "/api/list-bill-not-completed?service_type=" + url.QueryEscape(info.UpstreamType)

	headers := http.Header{}
	login, password := c.creds.BasicAuth()
	if login != "" {
		token := base64.StdEncoding.EncodeToString([]byte(login + ":" + password))
		headers.Set("Authorization", "Basic "+token)
	}
	headers.Set("Content-Type", "application/json")

	statusCode, body, _, err := c.client.Get(ctx, reqURL, headers)
	if err != nil {
		if isTimeout(err) {
			zap.L().Warn("upstream call timed out", zap.String("serviceType", serviceType), zap.Duration("timeout", c.timeout))
			return nil, ErrUpstreamTimeout
		}
		zap.L().Error("upstream call failed", zap.String("serviceType", serviceType), zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	if statusCode != http.StatusOK {
		zap.L().Error("upstream returned non-OK status", zap.String("serviceType", serviceType), zap.Int("status", statusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, statusCode)
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	codes, err := normalizeCodes(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return codes, nil
}

func normalizeCodes(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var delimited string
	if err := json.Unmarshal(raw, &delimited); err == nil {
		return splitCodes(delimited), nil
	}

	var mapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &mapped); err == nil {
		codes := make([]string, 0, len(mapped))
		for code := range mapped {
			if code = strings.TrimSpace(code); code != "" {
				codes = append(codes, code)
			}
		}
		return codes, nil
	}

	var listed []string
	if err := json.Unmarshal(raw, &listed); err == nil {
		out := make([]string, 0, len(listed))
		for _, code := range listed {
			if code = strings.TrimSpace(code); code != "" {
				out = append(out, code)
			}
		}
		return out, nil
	}

	return nil, errors.New("unrecognized upstream data shape")
}

func splitCodes(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	codes := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			codes = append(codes, f)
		}
	}
	return codes
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
