// Package redesign orchestrates a single transform request: style and upload
// validation, guest quota, the sanitize/scan collaborators, and the external
// transform call. Rate limiting and authentication run as route middleware
// ahead of this service.
package redesign

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authmodels "roomalchemy/internal/auth/models"
	"roomalchemy/internal/events"
	"roomalchemy/internal/policy"
	"roomalchemy/internal/quota"
	"roomalchemy/internal/upload"
	derrors "roomalchemy/pkg/domain-errors"
)

// Sanitizer strips metadata from raw upload bytes.
type Sanitizer interface {
	Strip(ctx context.Context, data []byte) ([]byte, error)
}

// Scanner returns a pass/fail malware verdict.
type Scanner interface {
	Scan(ctx context.Context, data []byte) error
}

// Transformer is the external image-transformation provider.
type Transformer interface {
	Transform(ctx context.Context, image []byte, style string) ([]byte, error)
}

// EventRecorder receives the single outcome event each traversal emits.
type EventRecorder interface {
	Record(ctx context.Context, ev events.Event)
}

// Request is one redesign attempt. Image is the buffered upload; the service
// releases it on every exit path.
type Request struct {
	Style     string
	Image     *upload.Upload
	Identity  *authmodels.Identity
	ClientIP  string
	UserAgent string
	RequestID string
}

// Result is a successful transform.
type Result struct {
	Image       []byte
	Filename    string
	ContentType string
}

// QuotaExceededError carries the window reset time for the 403 response body.
type QuotaExceededError struct {
	Err     *derrors.Error
	ResetAt time.Time
}

func (e *QuotaExceededError) Error() string { return e.Err.Error() }
func (e *QuotaExceededError) Unwrap() error { return e.Err }

// Service is the request orchestrator.
type Service struct {
	quotas       *quota.Service
	sanitizer    Sanitizer
	scanner      Scanner
	transformer  Transformer
	recorder     EventRecorder
	authOptional bool
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuthOptional allows anonymous callers; they are treated as guest tier.
func WithAuthOptional(optional bool) Option {
	return func(s *Service) {
		s.authOptional = optional
	}
}

// New creates the orchestrator.
func New(
	quotas *quota.Service,
	sanitizer Sanitizer,
	scanner Scanner,
	transformer Transformer,
	recorder EventRecorder,
	opts ...Option,
) (*Service, error) {
	if quotas == nil {
		return nil, derrors.New(derrors.CodeInternal, "quota service is required")
	}
	if sanitizer == nil || scanner == nil || transformer == nil {
		return nil, derrors.New(derrors.CodeInternal, "collaborators are required")
	}
	if recorder == nil {
		return nil, derrors.New(derrors.CodeInternal, "event recorder is required")
	}

	svc := &Service{
		quotas:      quotas,
		sanitizer:   sanitizer,
		scanner:     scanner,
		transformer: transformer,
		recorder:    recorder,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Redesign runs the pipeline for one request. Exactly one transform outcome
// event is emitted per traversal, and the upload buffer is released on every
// exit path, success or failure.
func (s *Service) Redesign(ctx context.Context, req *Request) (result *Result, err error) {
	var (
		resolvedStyle string
		inputSize     int64
		outputSize    int64
	)

	defer func() {
		// Mandatory cleanup: drop the buffered upload however we exit.
		if req.Image != nil {
			req.Image.Data = nil
		}
		s.emitOutcome(ctx, req, resolvedStyle, inputSize, outputSize, err)
	}()

	resolvedStyle, err = ResolveStyle(req.Style)
	if err != nil {
		return nil, err
	}

	if req.Image == nil || len(req.Image.Data) == 0 {
		err = derrors.New(derrors.CodeInvalidImage, "Image upload is required.")
		return nil, err
	}
	inputSize = req.Image.Size

	if err = s.checkQuota(ctx, req); err != nil {
		return nil, err
	}

	sanitized, err := s.sanitizer.Strip(ctx, req.Image.Data)
	if err != nil {
		return nil, err
	}

	if err = s.scanner.Scan(ctx, sanitized); err != nil {
		return nil, err
	}

	rendered, err := s.transformer.Transform(ctx, sanitized, resolvedStyle)
	if err != nil {
		return nil, err
	}
	outputSize = int64(len(rendered))

	return &Result{
		Image:       rendered,
		Filename:    outputFilename(resolvedStyle),
		ContentType: "image/png",
	}, nil
}

// checkQuota consumes guest quota when the caller is in the lowest tier.
// Authenticated users and admins bypass the ledger entirely.
func (s *Service) checkQuota(ctx context.Context, req *Request) error {
	var userID string
	applies := false

	switch {
	case req.Identity != nil && req.Identity.Role == policy.RoleGuest:
		applies = true
		userID = req.Identity.UserID
	case req.Identity == nil && s.authOptional:
		applies = true
	}
	if !applies {
		return nil
	}

	decision := s.quotas.Consume(ctx, userID, req.ClientIP)
	if !decision.Allowed {
		return &QuotaExceededError{
			Err:     derrors.New(derrors.CodeQuotaExceeded, "Guest design quota reached. Sign in for unlimited designs."),
			ResetAt: decision.ResetAt,
		}
	}
	return nil
}

// emitOutcome records the single transform event for this traversal.
func (s *Service) emitOutcome(ctx context.Context, req *Request, style string, inputSize, outputSize int64, err error) {
	ev := events.Event{
		Kind:       events.KindTransform,
		Timestamp:  time.Now(),
		RequestID:  req.RequestID,
		Path:       "/redesign",
		Style:      style,
		Success:    err == nil,
		Status:     200,
		InputSize:  inputSize,
		OutputSize: outputSize,
		ClientIP:   req.ClientIP,
		UserAgent:  req.UserAgent,
	}
	if req.Identity != nil {
		ev.UserID = req.Identity.UserID
		ev.Role = req.Identity.Role.String()
	} else if s.authOptional {
		ev.Role = policy.RoleGuest.String()
	}
	if err != nil {
		code := derrors.CodeOf(err)
		ev.ErrorKind = string(code)
		ev.Status = derrors.ToHTTPStatus(code)
	}
	s.recorder.Record(ctx, ev)
}

// outputFilename builds the download name for a rendered image.
func outputFilename(style string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(style)), "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return "roomalchemy-" + slug + "-" + suffix + ".png"
}
