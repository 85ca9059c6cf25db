package validator_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgvalidator "github.com/liverylab/catalog/pkg/validator"
)

type sampleStruct struct {
	OwnerID string   `validate:"required,uuid"`
	Name    string   `validate:"required,min=1,max=10"`
	Tags    []string `validate:"max=2,dive,required,lowercase"`
}

func TestValidate_valid(t *testing.T) {
	s := sampleStruct{
		OwnerID: "550e8400-e29b-41d4-a716-446655440000",
		Name:  "hello",
	}
	if err := pkgvalidator.Validate(&s); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestValidate_missingRequired(t *testing.T) {
	s := sampleStruct{}
	if err := pkgvalidator.Validate(&s); err == nil {
		t.Fatal("expected validation error for empty struct")
	}
}

func TestFormatValidationErrors_required(t *testing.T) {
	s := sampleStruct{}
	err := pkgvalidator.Validate(&s)
	m := pkgvalidator.FormatValidationErrors(err)
	if m["OwnerID"] != "This field is required" {
		t.Errorf("unexpected OwnerID message: %q", m["OwnerID"])
	}
	if m["Name"] != "This field is required" {
		t.Errorf("unexpected Name message: %q", m["Name"])
	}
}

func TestFormatValidationErrors_uuid(t *testing.T) {
	s := sampleStruct{OwnerID: "not-a-uuid", Name: "ok"}
	err := pkgvalidator.Validate(&s)
	m := pkgvalidator.FormatValidationErrors(err)
	if m["OwnerID"] != "Must be a valid UUID" {
		t.Errorf("unexpected OwnerID message: %q", m["OwnerID"])
	}
}

func TestFormatValidationErrors_min(t *testing.T) {
	s := sampleStruct{OwnerID: "550e8400-e29b-41d4-a716-446655440000", Name: ""}
	err := pkgvalidator.Validate(&s)
	m := pkgvalidator.FormatValidationErrors(err)
	// empty string fails "required" before "min"
	if _, ok := m["Name"]; !ok {
		t.Error("expected Name validation error")
	}
}

func TestFormatValidationErrors_max(t *testing.T) {
	s := sampleStruct{OwnerID: "550e8400-e29b-41d4-a716-446655440000", Name: "12345678901"} // 11 chars > max=10
	err := pkgvalidator.Validate(&s)
	m := pkgvalidator.FormatValidationErrors(err)
	if m["Name"] != "Maximum length is 10" {
		t.Errorf("unexpected Name message: %q", m["Name"])
	}
}

func TestFormatValidationErrors_nonValidationError(t *testing.T) {
	m := pkgvalidator.FormatValidationErrors(http.ErrNoCookie)
	if len(m) != 0 {
		t.Errorf("expected empty map for non-validation error, got %v", m)
	}
}

func TestVar(t *testing.T) {
	tests := []struct {
		value   string
		tag     string
		wantErr bool
	}{
		{"12", "number", false},
		{"12a", "number", true},
		{"desc", "oneof=asc desc", false},
		{"sideways", "oneof=asc desc", true},
		{"abc", "max=2", true},
		{"l-007", pkgvalidator.TagOpaqueID, false},
		{"a,b", pkgvalidator.TagOpaqueID, true},
		{"has space", pkgvalidator.TagOpaqueID, true},
		{"", pkgvalidator.TagOpaqueID, true},
		{strings.Repeat("x", 129), pkgvalidator.TagOpaqueID, true},
		{"caf\u00e9", pkgvalidator.TagOpaqueID, true},
	}
	for _, tt := range tests {
		err := pkgvalidator.Var(tt.value, tt.tag)
		if (err != nil) != tt.wantErr {
			t.Errorf("Var(%q, %q) error = %v, wantErr = %v", tt.value, tt.tag, err, tt.wantErr)
		}
	}
}

// --- ValidateRequest ---

type liveryReq struct {
	OwnerID string `json:"owner_id" validate:"required,uuid"`
	Name    string `json:"name"     validate:"required,min=1,max=255"`
}

func TestValidateRequest_valid(t *testing.T) {
	body := `{"owner_id":"550e8400-e29b-41d4-a716-446655440000","name":"gulf"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	req, ok := pkgvalidator.ValidateRequest[liveryReq](w, r)
	if !ok {
		t.Fatalf("expected ok=true, got false. Response: %s", w.Body.String())
	}
	if req.Name != "gulf" {
		t.Errorf("unexpected Name: %q", req.Name)
	}
}

func TestValidateRequest_invalidJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad json"))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[liveryReq](w, r)
	if ok {
		t.Fatal("expected ok=false for malformed JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid JSON") {
		t.Errorf("expected 'Invalid JSON' in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_missingField(t *testing.T) {
	body := `{"name":"gulf"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[liveryReq](w, r)
	if ok {
		t.Fatal("expected ok=false for missing owner_id")
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Validation failed") {
		t.Errorf("expected 'Validation failed' in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_invalidUUID(t *testing.T) {
	body := `{"owner_id":"not-uuid","name":"gulf"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[liveryReq](w, r)
	if ok {
		t.Fatal("expected ok=false for invalid UUID")
	}
	if !strings.Contains(w.Body.String(), "UUID") {
		t.Errorf("expected UUID error in body, got: %s", w.Body.String())
	}
}

func TestFormatValidationErrors_sliceElements(t *testing.T) {
	s := sampleStruct{
		OwnerID: "550e8400-e29b-41d4-a716-446655440000",
		Name:    "ok",
		Tags:    []string{"gt3", "Retro"},
	}
	m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&s))
	if m["Tags[1]"] != "Must be lowercase" {
		t.Errorf("unexpected Tags[1] message: %q (all: %v)", m["Tags[1]"], m)
	}

	s.Tags = []string{"a", "b", "c"}
	m = pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&s))
	if m["Tags"] != "Must contain at most 2 items" {
		t.Errorf("unexpected Tags message: %q", m["Tags"])
	}
}

func TestValidateRequest_unknownField(t *testing.T) {
	body := `{"owner_id":"550e8400-e29b-41d4-a716-446655440000","name":"gulf","admin":true}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	if _, ok := pkgvalidator.ValidateRequest[liveryReq](w, r); ok {
		t.Fatal("expected ok=false for unknown field")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestValidateRequest_bodyTooLarge(t *testing.T) {
	body := `{"owner_id":"550e8400-e29b-41d4-a716-446655440000","name":"gulf"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.Body = http.MaxBytesReader(w, r.Body, 8)

	if _, ok := pkgvalidator.ValidateRequest[liveryReq](w, r); ok {
		t.Fatal("expected ok=false past the body cap")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}
