// Package validate holds small predicates for user-supplied input.
package validate

import (
	"cmp"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmpty reports whether v is nil, a nil pointer or interface, a
// whitespace-only string, or an empty slice, array or map.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface())
	}
	return false
}

func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsPassword requires at least 8 characters including an upper-case
// letter, a lower-case letter and a digit.
func IsPassword(s string) bool {
	if len([]rune(s)) < 8 {
		return false
	}
	return govalidator.HasUpperCase(s) &&
		govalidator.HasLowerCase(s) &&
		strings.ContainsAny(s, "0123456789")
}

// IsURL reports whether s is an absolute URL. Web schemes also need a
// host.
func IsURL(s string) bool {
	if !govalidator.IsRequestURL(s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ws", "wss", "ftp":
		return u.Host != ""
	}
	return true
}

// IsPhone reports whether s holds at least ten digits, ignoring any
// other characters.
func IsPhone(s string) bool {
	return len(govalidator.WhiteList(s, "0-9")) >= 10
}

// InRange reports whether lo <= v <= hi.
func InRange[T cmp.Ordered](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

func IsFuture(t, now time.Time) bool {
	return t.After(now)
}

func IsPast(t, now time.Time) bool {
	return t.Before(now)
}
