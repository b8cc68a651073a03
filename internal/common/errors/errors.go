// internal/common/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode identifies a failure class shared by workers and BPMN boundary events.
type ErrorCode string

const (
	// Input
	ErrCodeParseError                ErrorCode = "PARSE_ERROR"
	ErrCodePortfolioValidationFailed ErrorCode = "PORTFOLIO_VALIDATION_FAILED"

	// Storage
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeCacheWriteFailed     ErrorCode = "CACHE_WRITE_FAILED"
	ErrCodeSearchIndexFailed    ErrorCode = "SEARCH_INDEX_FAILED"

	// Integrations
	ErrCodeCRMSyncFailed          ErrorCode = "CRM_SYNC_FAILED"
	ErrCodeCRMNotConfigured       ErrorCode = "CRM_NOT_CONFIGURED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error and returns it for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables flattens the error into process variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Job variables could not be parsed", err.Error(), false)
}

func NewPortfolioValidationFailedError(details string) *StandardError {
	return newError(ErrCodePortfolioValidationFailed, "Job input failed validation", details, false)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewCacheWriteFailedError(key string, err error) *StandardError {
	return newError(ErrCodeCacheWriteFailed, "Cache write failed", fmt.Sprintf("key: %s, error: %s", key, err.Error()), false)
}

func NewSearchIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchIndexFailed, "Search indexing failed", fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewCRMSyncFailedError(err error) *StandardError {
	return newError(ErrCodeCRMSyncFailed, "CRM lead sync failed", err.Error(), true)
}

func NewCRMNotConfiguredError() *StandardError {
	return newError(ErrCodeCRMNotConfigured, "CRM integration is not configured", "zoho auth token or api url missing", false)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// FromSentinel builds a StandardError whose code is the text of the wrapped
// sentinel. Workers declare sentinels as errors.New("<CODE>").
func FromSentinel(sentinel, err error) *StandardError {
	code := ErrorCode(sentinel.Error())
	message := strings.ToLower(strings.ReplaceAll(string(code), "_", " "))
	return newError(code, message, err.Error(), GetRetryCount(code) > 0)
}

// AsStandardError unwraps err to a StandardError, falling back to INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeParseError:                "PARSE_ERROR",
	ErrCodePortfolioValidationFailed: "PORTFOLIO_VALIDATION_FAILED",
	ErrCodeDatabaseInsertFailed:      "DATABASE_INSERT_FAILED",
	ErrCodeCacheWriteFailed:          "CACHE_WRITE_FAILED",
	ErrCodeSearchIndexFailed:         "SEARCH_INDEX_FAILED",
	ErrCodeCRMSyncFailed:             "CRM_SYNC_FAILED",
	ErrCodeCRMNotConfigured:          "CRM_NOT_CONFIGURED",
	ErrCodeNotificationSendFailed:    "NOTIFICATION_SEND_FAILED",
	ErrCodeInternal:                  "INTERNAL_ERROR",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseInsertFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeCRMSyncFailed,
		ErrCodeNotificationSendFailed:
		return 3
	default:
		// business errors and cache writes are never retried
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"errorCategory":     GetErrorCategory(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "CACHE"):
		return "STORAGE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "CRM"):
		return "CRM"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
