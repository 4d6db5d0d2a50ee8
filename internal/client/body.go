package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
)

// JSONBody marshals v once and returns a factory that replays the bytes.
func JSONBody(v any) (BodyFactory, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return BytesBody(data), nil
}

// BytesBody returns a factory that replays data on every attempt.
func BytesBody(data []byte) BodyFactory {
	return func() (io.Reader, error) {
		return bytes.NewReader(data), nil
	}
}

// FormFile is a file part of a multipart body.
type FormFile struct {
	Field    string
	FileName string
	Content  io.Reader
}

// MultipartForm is an ordered multipart/form-data body.
type MultipartForm struct {
	fields [][2]string
	files  []FormFile
}

// AddField appends a scalar field.
func (f *MultipartForm) AddField(name, value string) {
	f.fields = append(f.fields, [2]string{name, value})
}

// AddFile appends a file part.
func (f *MultipartForm) AddFile(file FormFile) {
	f.files = append(f.files, file)
}

// Build encodes the form once and returns a replayable body factory and the
// Content-Type header value carrying the boundary.
func (f *MultipartForm) Build() (BodyFactory, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field[0], err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.Field, file.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("copy file part %s: %w", file.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return BytesBody(buf.Bytes()), w.FormDataContentType(), nil
}
