package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeCaseNotFound, 404},
		{ErrCodeDuplicateID, 409},
		{ErrCodeDuplicateRuleEntry, 409},
		{ErrCodeInvalidWeighting, 422},
		{ErrCodeInsufficientFacts, 422},
		{ErrCodeUnknownJurisdiction, 404},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), string(tt.code))
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "insufficient facts", DefaultMessageForCode(ErrCodeInsufficientFacts))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientServerError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeInvalidRuleVariant))
	assert.False(t, IsClientError(ErrCodeDatabaseError))
	assert.True(t, IsServerError(ErrCodeDatabaseError))
	assert.False(t, IsServerError(ErrCodeCaseNotFound))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "RULE", ModuleForCode(ErrCodeDuplicateRuleEntry))
	assert.Equal(t, "COL", ModuleForCode(ErrCodeInsufficientFacts))
	assert.Equal(t, "CASE", ModuleForCode(ErrCodeDuplicateID))
	assert.Equal(t, "SCORE", ModuleForCode(ErrCodeInvalidWeighting))
	assert.Equal(t, "UNKNOWN", ModuleForCode(CodeOK))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestErrorCodeMappings_Completeness(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeHTTPStatus {
		assert.Regexp(t, re, string(code))
		_, hasMessage := ErrorCodeMessage[code]
		assert.True(t, hasMessage, "missing message for %s", code)
	}
	assert.Equal(t, len(ErrorCodeHTTPStatus), len(ErrorCodeMessage))
}

//Personal.AI order the ending
