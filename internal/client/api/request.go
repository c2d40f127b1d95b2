package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is sent as JSON. Ignored when Form is set.
	Body any
	Form *Form

	// NoAuthRedirect returns 401 as *common.APIError instead of ending the
	// session.
	NoAuthRedirect bool
}

// Form is a multipart body: plain fields plus an optional file.
type Form struct {
	Fields map[string]string
	File   *FilePart
}

type FilePart struct {
	Field   string
	Name    string
	Content io.Reader
}

// encode returns the body reader and its content type.
func (r Request) encode() (io.Reader, string, error) {
	switch {
	case r.Form != nil:
		return r.Form.encode()
	case r.Body != nil:
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	default:
		return nil, "", nil
	}
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range f.Fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if f.File != nil {
		field := f.File.Field
		if field == "" {
			field = "image"
		}
		part, err := mw.CreateFormFile(field, f.File.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.File.Content); err != nil {
			return nil, "", fmt.Errorf("read upload %s: %w", f.File.Name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
