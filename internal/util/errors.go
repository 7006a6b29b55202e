// internal/util/errors.go
// Definisi error aplikasi standar (kode + pesan) untuk respons API/log

package util

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code    string // e.g., "bad_input", "not_found", "fit_divergence"
	Message string
}

func (e AppError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeBadInput           = "bad_input"
	CodeNotFound           = "not_found"
	CodeInternal           = "internal"
	CodeInsufficientData   = "insufficient_data"
	CodeFitDivergence      = "fit_divergence"
	CodeMissingTemplateRow = "missing_template_row"
)

func BadInput(msg string) AppError { return AppError{Code: CodeBadInput, Message: msg} }
func NotFound(msg string) AppError { return AppError{Code: CodeNotFound, Message: msg} }
func Internal(msg string) AppError { return AppError{Code: CodeInternal, Message: msg} }

// CodeOf mengambil kode AppError dari rantai error (default "internal").
func CodeOf(err error) string {
	var ae AppError
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return CodeInternal
}
