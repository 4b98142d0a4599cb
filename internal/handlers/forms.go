package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lancer-works/api/internal/services"
)

const maxMultipartMemory = 4 << 20

// parseMultipartForm parses the request as a multipart form, bounding the
// total body size.
func parseMultipartForm(r *http.Request, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = services.DefaultUploadMaxBytes
	}
	// Allow form field overhead on top of the file ceiling.
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes+maxMultipartMemory)
	return r.ParseMultipartForm(maxMultipartMemory)
}

// formFileUpload extracts the named file part; ok is false when the part is absent.
func formFileUpload(r *http.Request, field string) (services.FileUpload, func(), bool, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return services.FileUpload{}, nil, false, nil
		}
		return services.FileUpload{}, nil, false, fmt.Errorf("%s must be a file part", field)
	}

	upload := services.FileUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
	cleanup := func() { _ = file.Close() }
	return upload, cleanup, true, nil
}

func formValue(form *multipart.Form, field string) string {
	if form == nil {
		return ""
	}
	values := form.Value[field]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func formDecimal(form *multipart.Form, field string) (decimal.Decimal, error) {
	raw := formValue(form, field)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal number", field)
	}
	return value, nil
}

func formOptionalUint(form *multipart.Form, field string) (*uint, error) {
	raw := formValue(form, field)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return nil, fmt.Errorf("%s must be a positive integer", field)
	}
	id := uint(value)
	return &id, nil
}

func formBool(form *multipart.Form, field string) (bool, error) {
	raw := formValue(form, field)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", field)
	}
	return value, nil
}

// formUintList parses a comma-separated id list, also accepting repeated fields.
func formUintList(form *multipart.Form, field string) ([]uint, error) {
	if form == nil {
		return nil, nil
	}
	var out []uint
	for _, raw := range form.Value[field] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			value, err := strconv.ParseUint(part, 10, 32)
			if err != nil || value == 0 {
				return nil, fmt.Errorf("%s must contain positive integers", field)
			}
			out = append(out, uint(value))
		}
	}
	return out, nil
}
