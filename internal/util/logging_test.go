package util_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	requestresponse "file-sharing-server/internal/model/requestresponse"
	"file-sharing-server/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogError_WrapsOriginal(t *testing.T) {
	base := errors.New("соединение разорвано")

	err := util.LogError("[LedgerRepo] не удалось сохранить grant", base)

	require.Error(t, err)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "[LedgerRepo] не удалось сохранить grant")
}

func TestHandleError_WritesErrorResponse(t *testing.T) {
	recorder := httptest.NewRecorder()

	util.HandleError(recorder, "доступ запрещён", http.StatusForbidden)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var resp requestresponse.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "доступ запрещён", resp.Message)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, http.StatusText(http.StatusForbidden), resp.Error)
}
