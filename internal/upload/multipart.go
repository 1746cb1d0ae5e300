package upload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// FormField is the multipart part carrying the file.
const FormField = "file"

// requestFromMultipart locates the file part of r and returns it as a
// Request without reading past its first byte. Parts before it are drained.
// The returned Body is only valid until the handler returns.
func requestFromMultipart(r *http.Request) (*Request, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return nil, fmt.Errorf("%w: expected multipart/form-data", ErrInvalidRequest)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: expected multipart/form-data", ErrInvalidRequest)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing or empty file", ErrInvalidRequest)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed multipart body", ErrInvalidRequest)
		}
		if part.FormName() != FormField || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		body := bufio.NewReader(part)
		if _, err := body.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: missing or empty file", ErrInvalidRequest)
			}
			return nil, fmt.Errorf("%w: malformed multipart body", ErrInvalidRequest)
		}

		return &Request{
			FileName:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Body:        body,
		}, nil
	}
}
