// Package validate checks struct fields against pipe-separated rule tags,
// e.g. `validate:"required|email"` or `validate:"integer|min:1"`.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Errors maps field names to the messages for the rules they failed.
type Errors map[string][]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msgs := range e {
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
	}
	return strings.Join(parts, "; ")
}

// Struct validates every tagged field of v, which must be a struct or a
// pointer to one. A nil return means all rules passed.
func Struct(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("validate: nil value")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("validate: expected struct, got %s", rv.Kind())
	}

	errs := Errors{}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}

		name := fieldName(field)
		value := rv.Field(i)
		rules := strings.Split(tag, "|")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := apply(rule, name, value); msg != "" {
				errs[name] = append(errs[name], msg)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func apply(rule, name string, value reflect.Value) string {
	parts := strings.SplitN(rule, ":", 2)
	arg := ""
	if len(parts) == 2 {
		arg = parts[1]
	}

	switch parts[0] {
	case "required":
		if isEmpty(value) {
			return fmt.Sprintf("The %s field is required.", name)
		}
	case "email":
		s, ok := asString(value)
		if ok && s != "" && !emailRe.MatchString(s) {
			return fmt.Sprintf("The %s field must be a valid email address.", name)
		}
	case "min":
		n, _ := strconv.ParseFloat(arg, 64)
		if size(value) < n && !isEmpty(value) {
			return fmt.Sprintf("The %s field must be at least %s.", name, arg)
		}
	case "max":
		n, _ := strconv.ParseFloat(arg, 64)
		if size(value) > n {
			return fmt.Sprintf("The %s field must not be greater than %s.", name, arg)
		}
	case "gte":
		n, _ := strconv.ParseFloat(arg, 64)
		if num, ok := asNumber(value); ok && num < n {
			return fmt.Sprintf("The %s field must be greater than or equal to %s.", name, arg)
		}
	case "integer":
		switch value.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		default:
			return fmt.Sprintf("The %s field must be an integer.", name)
		}
	case "in":
		s, _ := asString(value)
		if s == "" {
			return ""
		}
		for _, allowed := range strings.Split(arg, ",") {
			if s == allowed {
				return ""
			}
		}
		return fmt.Sprintf("The %s field must be one of: %s.", name, arg)
	}

	return ""
}

func fieldName(field reflect.StructField) string {
	if tag := field.Tag.Get("json"); tag != "" {
		name := strings.SplitN(tag, ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(field.Name)
}

func hasRule(rules []string, want string) bool {
	for _, rule := range rules {
		if rule == want {
			return true
		}
	}
	return false
}

func isEmpty(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.String:
		return strings.TrimSpace(value.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return value.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return value.IsNil()
	default:
		return value.IsZero()
	}
}

func size(value reflect.Value) float64 {
	switch value.Kind() {
	case reflect.String:
		return float64(len(value.String()))
	case reflect.Slice, reflect.Map, reflect.Array:
		return float64(value.Len())
	default:
		if n, ok := asNumber(value); ok {
			return n
		}
	}
	return 0
}

func asString(value reflect.Value) (string, bool) {
	if value.Kind() == reflect.String {
		return value.String(), true
	}
	return "", false
}

func asNumber(value reflect.Value) (float64, bool) {
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(value.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(value.Uint()), true
	case reflect.Float32, reflect.Float64:
		return value.Float(), true
	}
	return 0, false
}
