package domain

import (
	"reflect"

	"go.trai.ch/zerr"
)

// Artifact is one loaded implementation of a unit. Exactly one of Func and
// Class is set, matching Kind. Artifacts are immutable once built; a unit
// swaps whole artifacts, never mutates one.
type Artifact struct {
	// Kind says which variant this artifact carries.
	Kind Kind
	// Func is the callable implementation when Kind is KindFunc.
	Func reflect.Value
	// Class is the class descriptor when Kind is KindClass.
	Class *Descriptor
	// Digest is the fingerprint of the source the artifact was built from.
	// Zero means unknown (the original compiled implementation).
	Digest uint64
}

// NewFuncArtifact builds an artifact around a callable value.
func NewFuncArtifact(fn reflect.Value, digest uint64) (*Artifact, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, ErrUnsupportedTarget
	}
	return &Artifact{Kind: KindFunc, Func: fn, Digest: digest}, nil
}

// NewClassArtifact builds an artifact around a class descriptor.
func NewClassArtifact(desc *Descriptor, digest uint64) *Artifact {
	return &Artifact{Kind: KindClass, Class: desc, Digest: digest}
}

// Target returns the implementation as an untyped value: the function value
// itself for KindFunc, the descriptor for KindClass. This is what reload
// handlers receive.
func (a *Artifact) Target() any {
	if a.Kind == KindClass {
		return a.Class
	}
	return a.Func.Interface()
}

// CompatibleWith reports whether swapping from old to this artifact is safe
// for existing callers and instances.
func (a *Artifact) CompatibleWith(old *Artifact) error {
	if old == nil {
		return nil
	}
	switch a.Kind {
	case KindClass:
		return a.Class.CompatibleWith(old.Class)
	default:
		if a.Func.Type() != old.Func.Type() {
			return zerr.With(zerr.With(ErrIncompatibleSignature,
				"old", old.Func.Type().String()),
				"new", a.Func.Type().String(),
			)
		}
		return nil
	}
}

// Invoke calls a function value with loosely typed arguments, converting each
// argument to the corresponding parameter type. Results are returned as
// untyped values in declaration order.
func Invoke(fn reflect.Value, args []any) ([]any, error) {
	t := fn.Type()

	if t.IsVariadic() {
		if len(args) < t.NumIn()-1 {
			return nil, zerr.With(zerr.With(ErrArgumentMismatch, "want_at_least", t.NumIn()-1), "got", len(args))
		}
	} else if len(args) != t.NumIn() {
		return nil, zerr.With(zerr.With(ErrArgumentMismatch, "want", t.NumIn()), "got", len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= t.NumIn()-1 {
			pt = t.In(t.NumIn() - 1).Elem()
		} else {
			pt = t.In(i)
		}

		v, err := conform(arg, pt)
		if err != nil {
			return nil, zerr.With(err, "arg", i)
		}
		in[i] = v
	}

	out := fn.Call(in)
	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, nil
}

// conform coerces an untyped argument into the given parameter type.
func conform(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
			reflect.Pointer, reflect.Slice:
			return reflect.Zero(pt), nil
		default:
			return reflect.Value{}, zerr.With(zerr.With(ErrArgumentMismatch, "want", pt.String()), "got", "nil")
		}
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	// Integer-to-string conversion is legal in Go but yields a rune string,
	// which is never what a caller passing 42 for a string parameter meant.
	intToString := pt.Kind() == reflect.String && v.CanInt()
	if v.Type().ConvertibleTo(pt) && !intToString {
		return v.Convert(pt), nil
	}
	return reflect.Value{}, zerr.With(zerr.With(ErrArgumentMismatch, "want", pt.String()), "got", v.Type().String())
}
