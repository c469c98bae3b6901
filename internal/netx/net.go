// Package netx builds request bodies that net/http has no one-liner for.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
)

// FilePart is one file field of a multipart form.
type FilePart struct {
	Field    string
	FileName string
	Content  io.Reader
}

// MultipartBody encodes fields and files as multipart/form-data. It returns
// the body and the Content-Type header value carrying the boundary. Fields
// are written in key order so bodies are reproducible.
func MultipartBody(fields map[string]string, files []FilePart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("copy part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}
