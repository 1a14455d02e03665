// Package imaging provides the default sanitize and scan collaborators. Both
// are deliberately thin: real deployments swap in an EXIF-stripping encoder
// and a ClamAV-style scanner behind the same interfaces.
package imaging

import (
	"context"
	"log/slog"

	derrors "roomalchemy/pkg/domain-errors"
)

// MetadataStripper returns a sanitized copy of the input bytes. The copy also
// guarantees downstream stages never alias the request buffer.
type MetadataStripper struct{}

// NewMetadataStripper creates the default stripper.
func NewMetadataStripper() *MetadataStripper {
	return &MetadataStripper{}
}

// Strip sanitizes the raw upload bytes.
// TODO: re-encode through an image pipeline to actually drop EXIF blocks once
// an encoder dependency is chosen.
func (s *MetadataStripper) Strip(ctx context.Context, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, derrors.New(derrors.CodeInvalidImage, "Image upload is required.")
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Scanner is the malware-scanning collaborator placeholder. It always reports
// clean; integrate ClamAV via TCP/Unix socket here for real verdicts.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates the default scanner.
func NewScanner(logger *slog.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan returns a pass/fail verdict for the sanitized bytes.
func (s *Scanner) Scan(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return derrors.New(derrors.CodeInvalidImage, "No buffer provided for scan.")
	}
	s.logger.DebugContext(ctx, "av scan placeholder invoked", "bytes", len(data))
	return nil
}
