package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
)

const maxBodyBytes = 1 << 20

// requestDecoder reads JSON bodies and query strings into request DTOs and
// validates them with struct tags.
type requestDecoder struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newRequestDecoder() (*requestDecoder, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	locale := ja.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("ja")
	if err := ja_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	return &requestDecoder{validate: validate, translator: trans}, nil
}

// mustRequestDecoder is like newRequestDecoder but panics when the built-in
// translations cannot be registered.
func mustRequestDecoder() *requestDecoder {
	d, err := newRequestDecoder()
	if err != nil {
		panic(err)
	}
	return d
}

// requestError is a decoding or validation failure reported with status 400
// or 422.
type requestError struct {
	status int
	fields map[string]string
}

func (e *requestError) Error() string {
	if e.status == http.StatusBadRequest {
		return errBadRequestBody.Error()
	}
	return "request validation failed"
}

// decodeJSON reads the body into dst. Keys may be snake_case or camelCase.
func (d *requestDecoder) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	var raw any
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return &requestError{status: http.StatusBadRequest}
	}
	if _, ok := raw.(map[string]any); !ok {
		return &requestError{status: http.StatusBadRequest}
	}

	normalized, err := json.Marshal(normalizeKeys(raw))
	if err != nil {
		return &requestError{status: http.StatusBadRequest}
	}
	if err := json.NewDecoder(bytes.NewReader(normalized)).Decode(dst); err != nil {
		return &requestError{status: http.StatusBadRequest}
	}
	return d.check(dst)
}

// check runs struct tag validation and translates failures per field.
func (d *requestDecoder) check(dst any) error {
	err := d.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	fields := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		name := fe.Field()
		if _, exists := fields[name]; exists {
			continue
		}
		fields[name] = fe.Translate(d.translator)
	}
	return &requestError{status: http.StatusUnprocessableEntity, fields: fields}
}

// queryValue returns the first non-empty value for key, accepting the key in
// snake_case or camelCase. The snake_case spelling is consulted first.
func queryValue(values url.Values, key string) string {
	if v := firstNonEmpty(values[key]); v != "" {
		return v
	}
	for name, vals := range values {
		if name == key || snakeCase(name) != key {
			continue
		}
		if v := firstNonEmpty(vals); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(vals []string) string {
	for _, v := range vals {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// normalizeKeys rewrites every object key of a decoded JSON value to
// snake_case. When both spellings of a key are present the snake_case one
// wins.
func normalizeKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			normalized := snakeCase(key)
			if normalized != key {
				if _, literal := v[normalized]; literal {
					continue
				}
			}
			out[normalized] = normalizeKeys(inner)
		}
		return out
	case []any:
		for i := range v {
			v[i] = normalizeKeys(v[i])
		}
		return v
	default:
		return value
	}
}

// snakeCase converts camelCase or PascalCase to snake_case. Keys already in
// snake_case are returned unchanged.
func snakeCase(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	runes := []rune(key)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
