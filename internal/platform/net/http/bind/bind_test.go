package bind

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "secretsanta/internal/platform/errors"
)

type participantIn struct {
	Name  string `json:"name" validate:"required,min=2,max=10"`
	Phone string `json:"phone" validate:"required,phone"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/drawings/d1/participants", strings.NewReader(body))
}

func TestParseJSON_OK(t *testing.T) {
	in, err := ParseJSON[participantIn](post(`{"name":"Ana","phone":"912 345 678"}`))
	if err != nil || in.Name != "Ana" {
		t.Fatalf("ParseJSON = %+v, %v", in, err)
	}
}

func TestParseJSON_Failures(t *testing.T) {
	cases := []struct {
		name, body string
		code       perr.ErrorCode
	}{
		{"empty", ``, perr.ErrorCodeJSON},
		{"broken", `{"name":`, perr.ErrorCodeJSON},
		{"unknown field", `{"name":"Ana","phone":"912345678","age":3}`, perr.ErrorCodeJSON},
		{"trailing", `{"name":"Ana","phone":"912345678"} {}`, perr.ErrorCodeJSON},
		{"rule", `{"name":"A","phone":"912345678"}`, perr.ErrorCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON[participantIn](post(tc.body))
			if perr.CodeOf(err) != tc.code {
				t.Fatalf("code = %v, err = %v", perr.CodeOf(err), err)
			}
		})
	}
}

func TestParseJSON_Options(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/drawings/d1/draw", http.NoBody)
	if _, err := ParseJSON[struct{}](req); err != nil {
		t.Fatalf("DELETE tolerates an empty body: %v", err)
	}

	lax := JSONOptions{AllowEmptyBody: true}
	if _, err := ParseJSON[participantIn](post(``), lax); err != nil {
		t.Fatalf("AllowEmptyBody: %v", err)
	}
	if _, err := ParseJSON[participantIn](post(`{"name":"Ana","phone":"912345678","x":1}`), lax); err != nil {
		t.Fatalf("unknown fields allowed without DisallowUnknown: %v", err)
	}

	tiny := JSONOptions{MaxBytes: 8, DisallowUnknown: true}
	if _, err := ParseJSON[participantIn](post(`{"name":"Ana","phone":"912345678"}`), tiny); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("cut body should fail to decode, got %v", err)
	}
}

func TestValidate_AttachesJSONField(t *testing.T) {
	err := Validate(participantIn{Name: "Ana", Phone: "12"})
	var e *perr.Error
	if !errors.As(err, &e) || e.Field() != "phone" {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "phone must be a phone number") {
		t.Fatalf("message = %q", err.Error())
	}

	err = Validate(participantIn{Name: "Bartholomew the Third", Phone: "912345678"})
	if !strings.Contains(err.Error(), "name must be at most 10") {
		t.Fatalf("max message = %q", err.Error())
	}

	if Validate(42) == nil {
		t.Fatal("non struct should fail")
	}
}

func TestFieldAndMessage_Foreign(t *testing.T) {
	f, m := fieldAndMessage(errors.New("plain"))
	if f != "" || m != "plain" {
		t.Fatalf("got %q %q", f, m)
	}
}

func TestIsPhone(t *testing.T) {
	for _, ok := range []string{"912345678", "+351 912 345 678", "+4915112345678"} {
		if !IsPhone(ok) {
			t.Fatalf("IsPhone(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "12345", "+12345", "91234567a"} {
		if IsPhone(bad) {
			t.Fatalf("IsPhone(%q) = true", bad)
		}
	}
}
