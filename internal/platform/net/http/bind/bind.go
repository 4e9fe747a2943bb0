// Package bind provides JSON bind and validation helpers for handlers
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	perr "secretsanta/internal/platform/errors"
	"secretsanta/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type validation struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	vOnce sync.Once
	vSvc  validation
)

// shortMessages replace the stock english text for these tags
var shortMessages = map[string]string{
	"min":   "{0} must be at least {1}",
	"max":   "{0} must be at most {1}",
	"phone": "{0} must be a phone number (+ and 10 or more digits, or 9 or more digits)",
}

func get() validation {
	vOnce.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && IsPhone(s)
		})
		for tag, text := range shortMessages {
			_ = v.RegisterTranslation(tag, trans,
				func(t ut.Translator) error { return t.Add(tag, text, true) },
				func(t ut.Translator, fe validator.FieldError) string {
					msg, _ := t.T(fe.Tag(), fe.Field(), fe.Param())
					return msg
				},
			)
		}
		vSvc = validation{v: v, trans: trans}
	})
	return vSvc
}

// jsonName reports fields by their json key in messages
func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64
	DisallowUnknown bool
	AllowEmptyBody  bool
}

var defaultJSONOptions = JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}

// ParseJSON decodes one JSON value into T and validates it
// GET and DELETE tolerate an empty body and yield the zero T
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("failed to close request body")
		}
	}()

	var body io.Reader = r.Body
	if o.MaxBytes > 0 {
		body = io.LimitReader(body, o.MaxBytes)
	}
	dec := json.NewDecoder(body)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			if o.AllowEmptyBody || r.Method == http.MethodGet || r.Method == http.MethodDelete {
				return zero, nil
			}
			return zero, perr.JSONErrf("empty body")
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// Validate runs struct tags on v, the first failing field is attached to the error
func Validate(v any) error {
	err := get().v.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.JSONErrf("validation error")
	}
	field, msg := fieldAndMessage(err)
	out := perr.Validationf("%s", msg)
	if field != "" {
		out = perr.WithField(out, field)
	}
	return out
}

// fieldAndMessage returns the first failing field and its translated message
func fieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(get().trans)
	}
	return "", err.Error()
}

// phonePattern accepts an international number (+ and at least 10 digits) or a local one (9+ digits)
var phonePattern = regexp.MustCompile(`^(\+\d{10,}|\d{9,})$`)

// IsPhone reports whether s is an acceptable phone number, ignoring spaces
func IsPhone(s string) bool {
	return phonePattern.MatchString(strings.ReplaceAll(s, " ", ""))
}
