package apierror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("business failure keeps 200", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		Write(rec, Business("ALREADY_EXISTS", "classroom already exists", "C1"))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, false, body["status"])
		require.Equal(t, "classroom already exists", body["message"])
		require.Equal(t, "ALREADY_EXISTS", body["error"].(map[string]any)["code"])
	})

	t.Run("zero status is internal", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		Write(rec, &APIError{Code: "X", Message: "boom"})
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestError(t *testing.T) {
	t.Parallel()

	require.Equal(t, "NOT_FOUND: student not found (S1)", New("NOT_FOUND", "student not found", "S1", http.StatusNotFound).Error())
	require.Equal(t, "BAD_REQUEST: bad", New("BAD_REQUEST", "bad", "", http.StatusBadRequest).Error())

	var nilErr *APIError
	require.Equal(t, "", nilErr.Error())
}

func TestTimeoutBody(t *testing.T) {
	t.Parallel()

	var body Envelope
	require.NoError(t, json.Unmarshal([]byte(TimeoutBody()), &body))
	require.False(t, body.Status)
	require.Equal(t, "REQUEST_TIMEOUT", body.Error.Code)
}
