package domain

import "reflect"

// Kind classifies what a unit wraps.
type Kind string

const (
	// KindFunc indicates the unit wraps a plain function.
	KindFunc Kind = "function"
	// KindClass indicates the unit wraps a class constructor.
	KindClass Kind = "class"
)

// classConstructorType is the shape a class constructor must have: a niladic
// function returning the class members keyed by name.
var classConstructorType = reflect.TypeOf((func() map[string]any)(nil))

// Classify determines the kind of a wrapped target. Functions with the
// constructor shape func() map[string]any are classes; any other function is
// a plain function; everything else is unsupported.
func Classify(target any) (Kind, error) {
	t := reflect.TypeOf(target)
	if t == nil || t.Kind() != reflect.Func {
		return "", ErrUnsupportedTarget
	}
	if t == classConstructorType {
		return KindClass, nil
	}
	return KindFunc, nil
}
