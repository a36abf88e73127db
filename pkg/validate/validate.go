// Package validate implements struct-tag validation for request schemas.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required     field must not be zero or blank
//	nullable     nil or blank skips the remaining rules
//	email        valid email address
//	url          absolute http(s) URL
//	uuid         canonical UUID string or a non-nil uuid.UUID
//	slug         lowercase URL-safe slug: a-z, 0-9 and single dashes
//	min=N        string: min rune length | number: min value
//	max=N        string: max rune length | number: max value
//	gte=N, lte=N numeric bounds
//	in=a,b,c     value must be one of the listed items
//	regex=expr   value must match (avoid commas in expr)
//	nested       validate the struct (or *struct) field recursively; an
//	             embedded struct keeps the parent's key prefix
//
// Optional fields are pointers; a nil pointer passes every rule except
// required. Errors are keyed by json field name; nested fields are joined
// with a dot ("image.name").
//
//	type CreateCategory struct {
//	    Name string  `json:"name" validate:"required,max=255"`
//	    Slug *string `json:"slug" validate:"nullable,slug,max=255"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Struct validates every exported field of v carrying a `validate` tag and
// returns field → message. An empty map means v is valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	walk(reflect.ValueOf(v), "", errs)
	return errs
}

// HasErrors reports whether errs is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func walk(rv reflect.Value, prefix string, errs map[string]string) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := prefix + jsonFieldName(field)
		value := rv.Field(i)
		rules := splitRules(tag)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			switch rule {
			case "nullable":
				continue
			case "nested":
				if field.Anonymous {
					walk(value, prefix, errs)
				} else {
					walk(value, name+".", errs)
				}
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
}

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")

	if key == "required" {
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
		return ""
	}

	// Remaining rules look through pointers; nil optional values pass.
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	raw := stringValue(v)

	switch key {
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "url":
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Sprintf("The %s must be a valid URL.", field)
		}
	case "uuid":
		if !uuidRE.MatchString(raw) || raw == nilUUID {
			return fmt.Sprintf("The %s must be a valid UUID.", field)
		}
	case "slug":
		if !slugRE.MatchString(raw) {
			return fmt.Sprintf("The %s may only contain lowercase letters, numbers and single dashes.", field)
		}
	case "min":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(len([]rune(raw))) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(len([]rune(raw))) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gte":
		if toFloat(v) < mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if toFloat(v) > mustParseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "regex":
		re, err := regexp.Compile(param)
		if err != nil {
			return fmt.Sprintf("The %s has an invalid validation pattern.", field)
		}
		if !re.MatchString(raw) {
			return fmt.Sprintf("The %s format is invalid.", field)
		}
	}

	return ""
}

const nilUUID = "00000000-0000-0000-0000-000000000000"

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uuidRE  = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	slugRE  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// IsSlug reports whether s is a well-formed slug.
func IsSlug(s string) bool { return slugRE.MatchString(s) }

func stringValue(v reflect.Value) string {
	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return true
		}
		return isEmpty(v.Elem())
	case reflect.Bool:
		return false
	case reflect.Array, reflect.Struct:
		return v.IsZero()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(stringValue(v), 64)
	return f
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

// splitRules splits a tag on commas while keeping the value list of in=
// together: "required,in=admin,editor,max=10" → [required in=admin,editor max=10].
func splitRules(tag string) []string {
	var rules []string
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if len(rules) > 0 && strings.HasPrefix(rules[len(rules)-1], "in=") && !looksLikeRule(part) {
			rules[len(rules)-1] += "," + part
			continue
		}
		rules = append(rules, part)
	}
	return rules
}

var knownRules = map[string]bool{
	"required": true, "nullable": true, "email": true, "url": true, "uuid": true,
	"slug": true, "min": true, "max": true, "gte": true, "lte": true, "in": true,
	"regex": true, "nested": true,
}

func looksLikeRule(s string) bool {
	key, _, _ := strings.Cut(s, "=")
	return knownRules[key]
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
