// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardErrorFormat(t *testing.T) {
	err := NewInvalidChatRequestError("messages is required")
	assert.Equal(t, "StandardError[INVALID_CHAT_REQUEST]: Chat request failed validation", err.Error())
	assert.False(t, err.Retryable)
}

func TestPipelineCodesNeverRetry(t *testing.T) {
	for _, code := range []ErrorCode{
		ErrCodeInvalidChatRequest,
		ErrCodeIntentParsingFailed,
		ErrCodeCatalogUnavailable,
		ErrCodeCatalogQueryTimeout,
		ErrCodeContextDegraded,
		ErrCodeLLMTimeout,
		ErrCodeLLMSynthesisFailed,
	} {
		assert.Equal(t, 0, GetRetryCount(code), string(code))
		assert.False(t, IsRetryableErrorCode(code), string(code))
	}
}

func TestConnectErrorsCarryRetryBudget(t *testing.T) {
	err := NewDatabaseConnectionFailedError(fmt.Errorf("dial tcp: connection refused"))
	assert.True(t, err.Retryable)
	assert.True(t, IsRetryableErrorCode(err.Code))
	assert.Equal(t, 3, GetRetryCount(err.Code))
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewCatalogUnavailableError(fmt.Errorf("store down"))
	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "CATALOG_UNAVAILABLE", bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	require.NotEmpty(t, vars)
	assert.Equal(t, "CATALOG_UNAVAILABLE", vars["errorCode"])
	assert.Equal(t, "CATALOG_UNAVAILABLE", vars["originalErrorCode"])
}

func TestConvertToBPMNError_UnmappedCodeFallsBack(t *testing.T) {
	stdErr := &StandardError{Code: "SOMETHING_NEW", Message: "m"}
	bpmnErr := ConvertToBPMNError(stdErr)
	assert.Equal(t, "SOMETHING_NEW", bpmnErr.Code)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CATALOG", GetErrorCategory(ErrCodeCatalogUnavailable))
	assert.Equal(t, "CATALOG", GetErrorCategory(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeLLMTimeout))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidChatRequest))
	assert.Equal(t, "OTHER", GetErrorCategory("UNKNOWN"))
}
