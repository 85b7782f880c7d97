package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes follow the MODULE_NNN convention.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Sentinel codes that are not bound to a module.
const (
	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeValidation         ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeNotImplemented     ErrorCode = "COMMON_009"
)

// Infrastructure Error Codes
const (
	ErrCodeDatabaseError     ErrorCode = "INFRA_001"
	ErrCodeCacheError        ErrorCode = "INFRA_002"
	ErrCodeMessageQueueError ErrorCode = "INFRA_003"
	ErrCodeStorageError      ErrorCode = "INFRA_004"
	ErrCodeLockNotAcquired   ErrorCode = "INFRA_005"
	ErrCodeConfigInvalid     ErrorCode = "INFRA_006"
)

// Feed Error Codes
const (
	ErrCodeFeedDecode      ErrorCode = "FEED_001"
	ErrCodeFeedUnavailable ErrorCode = "FEED_002"
	ErrCodeFeedFormat      ErrorCode = "FEED_003"
)

// Jurisdiction Error Codes
const (
	ErrCodeUnknownJurisdiction   ErrorCode = "JUR_001"
	ErrCodeDuplicateJurisdiction ErrorCode = "JUR_002"
	ErrCodeInvalidJurisdiction   ErrorCode = "JUR_003"
)

// Rule Catalog Error Codes
const (
	ErrCodeDuplicateRuleEntry ErrorCode = "RULE_001"
	ErrCodeInvalidRuleVariant ErrorCode = "RULE_002"
	ErrCodeUnknownTopic       ErrorCode = "RULE_003"
)

// Comparison Error Codes
const (
	ErrCodeInsufficientJurisdictions ErrorCode = "CMP_001"
)

// Scoring Error Codes
const (
	ErrCodeInvalidWeighting ErrorCode = "SCORE_001"
)

// Choice-of-Law Error Codes
const (
	ErrCodeInsufficientFacts ErrorCode = "COL_001"
	ErrCodeUnknownApproach   ErrorCode = "COL_002"
	ErrCodeInvalidFactor     ErrorCode = "COL_003"
)

// Case Law Error Codes
const (
	ErrCodeCaseNotFound    ErrorCode = "CASE_001"
	ErrCodeDuplicateID     ErrorCode = "CASE_002"
	ErrCodeInvalidDecision ErrorCode = "CASE_003"
	ErrCodeInvalidQuery    ErrorCode = "CASE_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeDatabaseError:     http.StatusInternalServerError,
	ErrCodeCacheError:        http.StatusInternalServerError,
	ErrCodeMessageQueueError: http.StatusInternalServerError,
	ErrCodeStorageError:      http.StatusInternalServerError,
	ErrCodeLockNotAcquired:   http.StatusConflict,
	ErrCodeConfigInvalid:     http.StatusInternalServerError,

	ErrCodeFeedDecode:      http.StatusBadRequest,
	ErrCodeFeedUnavailable: http.StatusServiceUnavailable,
	ErrCodeFeedFormat:      http.StatusBadRequest,

	ErrCodeUnknownJurisdiction:   http.StatusNotFound,
	ErrCodeDuplicateJurisdiction: http.StatusConflict,
	ErrCodeInvalidJurisdiction:   http.StatusBadRequest,

	ErrCodeDuplicateRuleEntry: http.StatusConflict,
	ErrCodeInvalidRuleVariant: http.StatusBadRequest,
	ErrCodeUnknownTopic:       http.StatusBadRequest,

	ErrCodeInsufficientJurisdictions: http.StatusBadRequest,

	ErrCodeInvalidWeighting: http.StatusUnprocessableEntity,

	ErrCodeInsufficientFacts: http.StatusUnprocessableEntity,
	ErrCodeUnknownApproach:   http.StatusBadRequest,
	ErrCodeInvalidFactor:     http.StatusBadRequest,

	ErrCodeCaseNotFound:    http.StatusNotFound,
	ErrCodeDuplicateID:     http.StatusConflict,
	ErrCodeInvalidDecision: http.StatusBadRequest,
	ErrCodeInvalidQuery:    http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeValidation:         "validation failed",
	ErrCodeTimeout:            "request timeout",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeDatabaseError:     "database error",
	ErrCodeCacheError:        "cache error",
	ErrCodeMessageQueueError: "message queue error",
	ErrCodeStorageError:      "object storage error",
	ErrCodeLockNotAcquired:   "lock not acquired",
	ErrCodeConfigInvalid:     "invalid configuration",

	ErrCodeFeedDecode:      "failed to decode feed",
	ErrCodeFeedUnavailable: "feed source unavailable",
	ErrCodeFeedFormat:      "unsupported feed format",

	ErrCodeUnknownJurisdiction:   "unknown jurisdiction",
	ErrCodeDuplicateJurisdiction: "duplicate jurisdiction",
	ErrCodeInvalidJurisdiction:   "invalid jurisdiction",

	ErrCodeDuplicateRuleEntry: "duplicate rule entry",
	ErrCodeInvalidRuleVariant: "invalid rule variant",
	ErrCodeUnknownTopic:       "unknown legal topic",

	ErrCodeInsufficientJurisdictions: "at least two distinct jurisdictions are required",

	ErrCodeInvalidWeighting: "invalid weighting",

	ErrCodeInsufficientFacts: "insufficient facts",
	ErrCodeUnknownApproach:   "unknown choice-of-law approach",
	ErrCodeInvalidFactor:     "invalid contacting factor",

	ErrCodeCaseNotFound:    "case not found",
	ErrCodeDuplicateID:     "duplicate decision id",
	ErrCodeInvalidDecision: "invalid court decision",
	ErrCodeInvalidQuery:    "invalid search query",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
