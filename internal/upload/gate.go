// Package upload validates inbound files before any expensive work: declared
// media type, size ceiling, and exactly one file. Content inspection is the
// sanitize/scan collaborators' job.
package upload

import (
	"io"
	"mime"
	"net/http"
	"strings"

	derrors "roomalchemy/pkg/domain-errors"
)

// DefaultMaxBytes is the upload ceiling when none is configured.
const DefaultMaxBytes = 8 << 20 // 8 MiB

// fileField is the multipart field the image must arrive in.
const fileField = "image"

// maxValueBytes bounds each non-file form value.
const maxValueBytes = 4 << 10

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Upload is one validated file, buffered in memory. The orchestrator owns the
// buffer and must release it on every exit path.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Form is the parsed multipart body: the single validated upload plus any
// plain form values (e.g. the style field).
type Form struct {
	Upload *Upload
	Values map[string]string
}

// Gate parses and validates multipart uploads.
type Gate struct {
	maxBytes int64
}

// NewGate creates a gate with the given size ceiling (default 8 MiB).
func NewGate(maxBytes int64) *Gate {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Gate{maxBytes: maxBytes}
}

// MaxBytes returns the configured ceiling.
func (g *Gate) MaxBytes() int64 { return g.maxBytes }

// Parse streams the multipart body, validating each file part before
// buffering it: declared media type first, then size while reading, and at
// most one file. The declared Content-Type alone is trusted here; no sniffing.
func (g *Gate) Parse(r *http.Request) (*Form, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInvalidRequest, "Request must be multipart/form-data.")
	}

	form := &Form{Values: make(map[string]string)}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, derrors.Wrap(err, derrors.CodeInvalidRequest, "Malformed multipart body.")
		}

		if part.FileName() == "" {
			value, err := io.ReadAll(io.LimitReader(part, maxValueBytes))
			part.Close()
			if err != nil {
				return nil, derrors.Wrap(err, derrors.CodeInvalidRequest, "Malformed multipart body.")
			}
			form.Values[part.FormName()] = string(value)
			continue
		}

		if form.Upload != nil {
			part.Close()
			return nil, derrors.New(derrors.CodeInvalidRequest, "Exactly one file is allowed.")
		}
		if part.FormName() != fileField {
			part.Close()
			return nil, derrors.New(derrors.CodeInvalidRequest, "Unexpected file field.")
		}

		contentType := declaredType(part.Header.Get("Content-Type"))
		if _, ok := allowedTypes[contentType]; !ok {
			part.Close()
			return nil, derrors.New(derrors.CodeInvalidFileType, "Only JPEG, PNG, and WEBP images are supported.")
		}

		data, err := io.ReadAll(io.LimitReader(part, g.maxBytes+1))
		part.Close()
		if err != nil {
			return nil, derrors.Wrap(err, derrors.CodeInvalidRequest, "Failed to read upload.")
		}
		if int64(len(data)) > g.maxBytes {
			return nil, derrors.New(derrors.CodeUploadTooLarge, "Uploaded image exceeds the size limit.")
		}

		form.Upload = &Upload{
			Filename:    part.FileName(),
			ContentType: contentType,
			Size:        int64(len(data)),
			Data:        data,
		}
	}

	if form.Upload == nil {
		return nil, derrors.New(derrors.CodeInvalidImage, "Image upload is required.")
	}

	return form, nil
}

// declaredType strips parameters from a media type header value.
func declaredType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}
	return mediaType
}
