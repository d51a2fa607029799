package model

import (
	"errors"
	"fmt"
)

const (
	ErrCodeReportNotFound = "RPT001"
	ErrCodeSelfReport     = "RPT002"
	ErrCodeInvalidStatus  = "RPT003"
)

var (
	ErrReportNotFound = errors.New("report not found")
)

type ReportError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ReportError) Unwrap() error { return e.Err }

func NewReportNotFoundError() *ReportError {
	return &ReportError{Code: ErrCodeReportNotFound, Message: "Report not found", Err: ErrReportNotFound}
}

func NewSelfReportError() *ReportError {
	return &ReportError{Code: ErrCodeSelfReport, Message: "You cannot report yourself"}
}

func NewInvalidStatusError(status string) *ReportError {
	return &ReportError{Code: ErrCodeInvalidStatus, Message: fmt.Sprintf("Unknown report status %q", status)}
}
