// Package forms validates and converts the HTML forms of the site. Nothing
// here talks to the network; every rule runs before an API call is made.
package forms

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"ticketsafi/web/internal/service/ticketsafi"
)

// MaxUploadSize bounds a single image upload.
const MaxUploadSize = 5 << 20

// Errors maps a form field to the message shown next to it. The empty key
// holds the form level message.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e Errors) Any() bool { return len(e) > 0 }

func (e Errors) Get(field string) string { return e[field] }

// First returns the form level message, or the first field message in field
// order.
func (e Errors) First() string {
	if msg, ok := e[""]; ok {
		return msg
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return e[keys[0]]
}

// field reads a trimmed form value.
func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// readFile loads an uploaded file into memory. A missing file is not an
// error.
func readFile(r *http.Request, name string) (*ticketsafi.File, error) {
	f, hdr, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fileFrom(f, hdr)
}

func fileFrom(f multipart.File, hdr *multipart.FileHeader) (*ticketsafi.File, error) {
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}
	ct := hdr.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &ticketsafi.File{Name: hdr.Filename, ContentType: ct, Data: data}, nil
}

var ErrFileTooLarge = errors.New("Images must be 5 MB or smaller.")
