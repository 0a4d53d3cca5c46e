// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, multipart decoding, and identity lookups so handlers share one error vocabulary.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/coursedesk/internal/platform/apperr"
	"github.com/taibuivan/coursedesk/internal/platform/ctxutil"
	"github.com/taibuivan/coursedesk/internal/platform/validate"
)

// ErrInvalidForm is returned when a multipart body cannot be parsed.
var ErrInvalidForm = apperr.ValidationError("Invalid multipart form")

/*
ParseMultipart parses a multipart/form-data body, keeping up to maxMemory bytes in RAM.
*/
func ParseMultipart(request *http.Request, maxMemory int64) error {
	if err := request.ParseMultipartForm(maxMemory); err != nil {
		return ErrInvalidForm
	}
	return nil
}

/*
DecodeFormJSON decodes a JSON document carried in a single form field.

Returns:
  - error: a field-level validation error if the field is absent or malformed
*/
func DecodeFormJSON(request *http.Request, field string, target interface{}) error {
	raw := request.FormValue(field)
	if strings.TrimSpace(raw) == "" {
		return validate.RequiredError(field, "This field is required")
	}

	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return validate.RequiredError(field, "Must be a valid JSON document")
	}
	return nil
}

/*
OptionalFile returns the uploaded file for field, or (nil, nil, nil) when none was attached.
The caller owns closing the returned file.
*/
func OptionalFile(request *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, ErrInvalidForm
	}
	return file, header, nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredUserID returns the identity provider user ID of the caller.

Returns:
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	userID := ctxutil.GetUserID(request.Context())
	if userID == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	return userID, nil
}
