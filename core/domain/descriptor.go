package domain

import (
	"reflect"

	"go.trai.ch/zerr"
)

// InitMethod is the member name treated as the instance initializer. When a
// class defines it, it runs with the construction arguments right after the
// instance's fields are populated.
const InitMethod = "init"

// Descriptor is the runtime type of a reloadable class: a dispatch table of
// methods plus default values for instance fields. Instances point at a
// descriptor; a class reload retargets that pointer while the field storage
// stays where it is.
//
// A descriptor is built from the member map a class constructor returns:
// func-valued members become methods, every other member becomes a field
// default. Descriptors are immutable after construction.
type Descriptor struct {
	name    string
	fields  map[string]any
	methods map[string]reflect.Value
}

// NewDescriptor splits a constructor's member map into methods and field
// defaults. Methods must take the instance's field storage as their first
// parameter.
func NewDescriptor(name string, members map[string]any) (*Descriptor, error) {
	d := &Descriptor{
		name:    name,
		fields:  make(map[string]any),
		methods: make(map[string]reflect.Value),
	}

	for member, value := range members {
		v := reflect.ValueOf(value)
		if v.IsValid() && v.Kind() == reflect.Func {
			t := v.Type()
			if t.NumIn() == 0 || t.In(0) != reflect.TypeOf(map[string]any(nil)) {
				return nil, zerr.With(zerr.With(zerr.With(ErrUnsupportedTarget,
					"class", name),
					"method", member),
					"reason", "first parameter must be the instance field map",
				)
			}
			d.methods[member] = v
			continue
		}
		d.fields[member] = value
	}

	return d, nil
}

// Name returns the class name.
func (d *Descriptor) Name() string { return d.name }

// Method looks up a method by name.
func (d *Descriptor) Method(name string) (reflect.Value, bool) {
	m, ok := d.methods[name]
	return m, ok
}

// Methods returns the method names in no particular order.
func (d *Descriptor) Methods() []string {
	names := make([]string, 0, len(d.methods))
	for name := range d.methods {
		names = append(names, name)
	}
	return names
}

// FieldDefaults returns a fresh copy of the default field values, suitable as
// a new instance's storage.
func (d *Descriptor) FieldDefaults() map[string]any {
	fields := make(map[string]any, len(d.fields))
	for name, value := range d.fields {
		fields[name] = value
	}
	return fields
}

// HasField reports whether the class declares the named field.
func (d *Descriptor) HasField(name string) bool {
	_, ok := d.fields[name]
	return ok
}

// CompatibleWith reports whether instances of old can be migrated to d.
// Every field old declares must survive; new fields are allowed and get
// their defaults added during migration.
func (d *Descriptor) CompatibleWith(old *Descriptor) error {
	if old == nil {
		return nil
	}
	for name := range old.fields {
		if _, ok := d.fields[name]; !ok {
			return zerr.With(zerr.With(ErrIncompatibleLayout, "class", d.name), "missing_field", name)
		}
	}
	return nil
}
