package codeservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/internal/metrics"
	"github.com/vthuan-dev/bulkpay/internal/upstream"
	"github.com/vthuan-dev/bulkpay/pkg/validate"
	"go.uber.org/zap"
)

// UpstreamClient lists the codes currently outstanding for a service type.
type UpstreamClient interface {
	OutstandingCodes(ctx context.Context, serviceType string) ([]string, error)
}

type Service struct {
	upstream UpstreamClient
}

func New(upstreamClient UpstreamClient) *Service {
	return &Service{
		upstream: upstreamClient,
	}
}

var (
	ErrValidationUnavailable = errors.New("validation source unavailable")
	ErrNoValidCodes          = errors.New("no valid codes after validation")
	ErrModeRequired          = errors.New("payment mode is required for this service")
	ErrUnknownServiceType    = errors.New("unknown service type")
)

// MalformedCodeError lists every code violating the chosen mode's shape, so
// the user can fix the whole batch in one pass.
type MalformedCodeError struct {
	Mode  string
	Codes []string
}

func (e *MalformedCodeError) Error() string {
	return fmt.Sprintf("malformed codes for mode %q: %s", e.Mode, strings.Join(e.Codes, ", "))
}

// topupAmounts is the fixed denomination set accepted by the postpaid
// "number|amount" form.
var topupAmounts = map[string]struct{}{
	"10000":  {},
	"20000":  {},
	"30000":  {},
	"50000":  {},
	"100000": {},
	"200000": {},
	"300000": {},
	"500000": {},
}

type Summary struct {
	OriginalCount     int `json:"originalCount"`
	UniqueCount       int `json:"uniqueCount"`
	DuplicatesRemoved int `json:"duplicatesRemoved"`
	InvalidCount      int `json:"invalidCount"`
	FinalCount        int `json:"finalCount"`
}

type Result struct {
	Codes         []string
	RejectedCodes []string
	Summary       Summary
}

// Normalize turns raw user input into the final, upstream-verified code list.
// It fails the whole submission on any policy violation; nothing is persisted
// by this service.
func (s *Service) Normalize(ctx context.Context, serviceType, mode string, raw []string) (*Result, error) {
	info, ok := domain.ServiceByID(serviceType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownServiceType, serviceType)
	}

	cleaned := make([]string, 0, len(raw))
	for _, code := range raw {
		if code = strings.TrimSpace(code); code != "" {
			cleaned = append(cleaned, code)
		}
	}

	seen := make(map[string]struct{}, len(cleaned))
	unique := make([]string, 0, len(cleaned))
	for _, code := range cleaned {
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		unique = append(unique, code)
	}

	summary := Summary{
		OriginalCount:     len(cleaned),
		UniqueCount:       len(unique),
		DuplicatesRemoved: len(cleaned) - len(unique),
	}

	if info.RequiresMode {
		switch mode {
		case domain.ModePrepaid, domain.ModePostpaid:
		case "":
			return nil, ErrModeRequired
		default:
			return nil, fmt.Errorf("%w: unknown mode %q", ErrModeRequired, mode)
		}
	}

	outstanding, err := s.upstream.OutstandingCodes(ctx, serviceType)
	if err != nil {
		switch {
		case errors.Is(err, upstream.ErrUpstreamTimeout):
			metrics.UpstreamRequests.WithLabelValues(serviceType, "timeout").Inc()
			return nil, err
		default:
			metrics.UpstreamRequests.WithLabelValues(serviceType, "error").Inc()
			zap.L().Error("can't fetch outstanding codes", zap.String("serviceType", serviceType), zap.Error(err))
			return nil, fmt.Errorf("%w: %s", ErrValidationUnavailable, err)
		}
	}
	metrics.UpstreamRequests.WithLabelValues(serviceType, "ok").Inc()

	valid := make(map[string]struct{}, len(outstanding))
	for _, code := range outstanding {
		valid[code] = struct{}{}
	}

	kept := make([]string, 0, len(unique))
	var rejected []string
	for _, code := range unique {
		if _, ok := valid[identifier(code)]; ok {
			kept = append(kept, code)
		} else {
			rejected = append(rejected, code)
		}
	}
	summary.InvalidCount = len(rejected)

	if info.RequiresMode {
		if malformed := malformedForMode(mode, kept); len(malformed) > 0 {
			return nil, &MalformedCodeError{Mode: mode, Codes: malformed}
		}
	}

	summary.FinalCount = len(kept)
	if len(kept) == 0 {
		return nil, ErrNoValidCodes
	}

	zap.L().Info("batch normalized",
		zap.String("serviceType", serviceType),
		zap.Int("original", summary.OriginalCount),
		zap.Int("duplicatesRemoved", summary.DuplicatesRemoved),
		zap.Int("invalid", summary.InvalidCount),
		zap.Int("final", summary.FinalCount),
	)

	return &Result{
		Codes:         kept,
		RejectedCodes: rejected,
		Summary:       summary,
	}, nil
}

// identifier strips the "|amount" suffix of compound postpaid codes; upstream
// membership is checked against the bare subscriber number.
func identifier(code string) string {
	if i := strings.IndexByte(code, '|'); i >= 0 {
		return code[:i]
	}
	return code
}

func malformedForMode(mode string, codes []string) []string {
	var malformed []string
	for _, code := range codes {
		if !codeMatchesMode(mode, code) {
			malformed = append(malformed, code)
		}
	}
	return malformed
}

func codeMatchesMode(mode, code string) bool {
	parts := strings.Split(code, "|")
	switch mode {
	case domain.ModePrepaid:
		// Bare subscriber number, no delimiter.
		return len(parts) == 1 && validate.IsPhone(parts[0])
	case domain.ModePostpaid:
		if len(parts) != 2 || !validate.IsPhone(parts[0]) {
			return false
		}
		_, ok := topupAmounts[strings.TrimSpace(parts[1])]
		return ok
	}
	return false
}
