// Package bind decodes request bodies into structs and runs validation.
// The cart mutation endpoints arrive as form-urlencoded, everything else
// as JSON, so Body sniffs the Content-Type.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/travlrgetaways/travlr/pkg/validate"
)

var ErrUnsupportedMedia = errors.New("bind: unsupported content type")

// JSON decodes the request body as JSON into dst and validates it.
func JSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("bind: decode json: %w", err)
	}
	return validate.Struct(dst)
}

// Form parses an urlencoded body into dst by matching form keys against
// json tags, then validates it. The body is read directly rather than
// through ParseForm, which ignores bodies on methods like DELETE.
func Form(r *http.Request, dst any) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("bind: read form: %w", err)
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return fmt.Errorf("bind: parse form: %w", err)
	}
	if err := fillForm(values.Get, dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// Multipart parses a multipart body into dst the same way Form does.
func Multipart(r *http.Request, dst any) error {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return fmt.Errorf("bind: parse multipart: %w", err)
	}
	if err := fillForm(r.PostForm.Get, dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// Body picks the decoder from the request's Content-Type.
func Body(r *http.Request, dst any) error {
	ct := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(ct)

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		return Form(r, dst)
	case mediaType == "multipart/form-data":
		return Multipart(r, dst)
	case mediaType == "application/json", mediaType == "":
		return JSON(r, dst)
	default:
		return ErrUnsupportedMedia
	}
}

func fillForm(get func(string) string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("bind: destination must be a non-nil pointer")
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("bind: destination must point to a struct")
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		key := formKey(field)
		if key == "" {
			continue
		}

		raw := get(key)
		if raw == "" {
			continue
		}

		target := rv.Field(i)
		switch target.Kind() {
		case reflect.String:
			target.SetString(raw)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("bind: field %s: %w", key, err)
			}
			target.SetInt(n)
		case reflect.Float32, reflect.Float64:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("bind: field %s: %w", key, err)
			}
			target.SetFloat(f)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("bind: field %s: %w", key, err)
			}
			target.SetBool(b)
		}
	}

	return nil
}

func formKey(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return strings.ToLower(field.Name)
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return strings.ToLower(field.Name)
	}
	return name
}
