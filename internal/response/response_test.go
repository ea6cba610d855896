package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(ContextKeyRequestID, "req-123")

	Success(c, http.StatusOK, gin.H{"hello": "dunia"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != nil {
		t.Errorf("unexpected error body: %+v", body.Error)
	}
	if body.Metadata.RequestID != "req-123" {
		t.Errorf("request_id = %q, want req-123", body.Metadata.RequestID)
	}
	if body.Metadata.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestFailUsesDefaultMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, http.StatusNotFound, ErrNotFound)

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error == nil {
		t.Fatal("error body missing")
	}
	if body.Error.Code != ErrNotFound {
		t.Errorf("code = %s, want NOT_FOUND", body.Error.Code)
	}
	if body.Error.Message != GetMessage(ErrNotFound) {
		t.Errorf("message = %q, want default for NOT_FOUND", body.Error.Message)
	}
	// Middleware was not applied, so a request ID must still be generated.
	if body.Metadata.RequestID == "" {
		t.Error("fallback request_id missing")
	}
}

func TestFailWithMessageOverridesDefault(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	custom := `jadwal bentrok dengan kelas "Matematika" (Senin 07:00-08:30)`
	FailWithMessage(c, http.StatusConflict, ErrScheduleConflict, custom)

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Message != custom {
		t.Errorf("message = %q, want custom conflict text", body.Error.Message)
	}
}

func TestFailWithFieldsCarriesFieldMap(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{
		"email": "Email wajib diisi.",
	})

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Fields["email"] != "Email wajib diisi." {
		t.Errorf("fields = %v", body.Error.Fields)
	}
}

func TestEveryCodeHasAMessage(t *testing.T) {
	codes := []ErrCode{
		ErrInvalidCredentials, ErrSessionActive, ErrSessionInvalidated,
		ErrTokenRequired, ErrTokenInvalid, ErrForbidden, ErrNotClassOwner,
		ErrValidation, ErrInvalidID, ErrInvalidPayload, ErrInvalidTimeRange,
		ErrOverrideReason, ErrNotFound, ErrConflict, ErrScheduleConflict,
		ErrDependencyExists, ErrDeadlinePassed, ErrAlreadyDecided,
		ErrFileRequired, ErrUnsupportedFile, ErrFileTooLarge, ErrUploadFailed,
		ErrRateLimitExceeded, ErrInternal,
	}
	for _, code := range codes {
		if GetMessage(code) == "" {
			t.Errorf("code %s has no message", code)
		}
	}
}
