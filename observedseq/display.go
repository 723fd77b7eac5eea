package observedseq

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/message"
)

const displaySeparator = ","

// displayable is implemented by *Sequence[T] of any T, so nested sequences are displayed by their elements.
type displayable interface {
	displayElements() []any
}

func (s *Sequence[T]) displayElements() []any {
	return argsOf(s.items)
}

// Join concatenates the display forms of the elements, separated by separator.
// nil elements display as the empty string; nested slices and sequences display as their comma-joined elements.
// Publishes KindAccessed "join" with the argument [separator].
func (s *Sequence[T]) Join(separator string) string {
	result := joinDisplayForms(argsOf(s.items), separator, fmt.Sprint)
	s.publish(KindAccessed, OpJoin, []any{separator}, s.items)

	return result
}

// ToDisplayString returns the elements joined by a comma.
// It is not named String, so formatting a Sequence with fmt publishes nothing.
// Publishes KindAccessed "toString" without arguments.
func (s *Sequence[T]) ToDisplayString() string {
	result := joinDisplayForms(argsOf(s.items), displaySeparator, fmt.Sprint)
	s.publish(KindAccessed, OpToString, nil, s.items)

	return result
}

// ToLocaleDisplayString returns the elements joined by a comma, formatting numbers for the locale configured
// WithLocale (English by default).
// Publishes KindAccessed "toLocaleString" without arguments.
func (s *Sequence[T]) ToLocaleDisplayString() string {
	printer := message.NewPrinter(s.settings.locale)
	result := joinDisplayForms(argsOf(s.items), displaySeparator, func(a ...any) string {
		return printer.Sprintf("%v", a...)
	})
	s.publish(KindAccessed, OpToLocaleString, nil, s.items)

	return result
}

func joinDisplayForms(values []any, separator string, format func(a ...any) string) string {
	forms := make([]string, 0, len(values))
	for _, value := range values {
		forms = append(forms, displayForm(value, format))
	}

	return strings.Join(forms, separator)
}

// displayForm renders one element: nil values are empty, nested collections are comma-joined, the rest is formatted.
func displayForm(value any, format func(a ...any) string) string {
	if value == nil {
		return ""
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return ""
		}
	}

	switch v := value.(type) {
	case string:
		return v
	case displayable:
		return joinDisplayForms(v.displayElements(), displaySeparator, format)
	}

	if kind := rv.Kind(); kind == reflect.Slice || kind == reflect.Array {
		nested := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			nested = append(nested, rv.Index(i).Interface())
		}

		return joinDisplayForms(nested, displaySeparator, format)
	}

	return format(value)
}

// compareDisplayForms is the default order of Sort.
func compareDisplayForms[T any](a, b T) int {
	return strings.Compare(displayForm(a, fmt.Sprint), displayForm(b, fmt.Sprint))
}
