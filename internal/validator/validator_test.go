package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func jsonContext(body string) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindValidPayload(t *testing.T) {
	c := jsonContext(`{"email":"andi@sekolah.sch.id","password":"rahasia123"}`)

	var dst loginPayload
	if fields := Bind(c, &dst); fields != nil {
		t.Fatalf("unexpected errors: %v", fields)
	}
	if dst.Email != "andi@sekolah.sch.id" {
		t.Errorf("email = %q", dst.Email)
	}
}

func TestBindReportsFieldsByJSONTag(t *testing.T) {
	c := jsonContext(`{"email":"bukan-email","password":"x"}`)

	var dst loginPayload
	fields := Bind(c, &dst)
	if fields == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := fields["email"]; !ok {
		t.Errorf("missing email error, got %v", fields)
	}
	if _, ok := fields["password"]; !ok {
		t.Errorf("missing password error, got %v", fields)
	}
}

func TestBindMalformedJSON(t *testing.T) {
	c := jsonContext(`{not json`)

	var dst loginPayload
	fields := Bind(c, &dst)
	if fields == nil {
		t.Fatal("expected an error map")
	}
	if fields["detail"] == "" {
		t.Errorf("expected detail entry, got %v", fields)
	}
}
