package valuecache

import (
	"github.com/goccy/go-reflect"
)

// ValueCloner is an interface for cloning values.
// The cache hands every caller its own copy made by CloneValue, so callers
// mutating what they received cannot corrupt the cached value.
type ValueCloner[V any] interface {
	CloneValue(V) V
}

// ValueClonerFunc is a function type that implements the ValueCloner interface.
type ValueClonerFunc[V any] func(v V) V

// CloneValue calls the function.
func (f ValueClonerFunc[V]) CloneValue(v V) V {
	return f(v)
}

// NopValueCloner is a value cloner that does not clone values.
// It suits immutable values and primitive types.
type NopValueCloner[V any] struct{}

// CloneValue returns the input value.
func (NopValueCloner[V]) CloneValue(v V) V {
	return v
}

// DefaultValueCloner returns a default cloner for the given value type.
// It uses the Clone or DeepCopy method when the type has one, and NopValueCloner otherwise.
func DefaultValueCloner[V any]() ValueCloner[V] {
	type cloner interface {
		Clone() V
	}
	type deepCopier interface {
		DeepCopy() V
	}

	// inspect the static type, so that interface and nil pointer types are handled too
	typ := reflect.TypeOf((*V)(nil)).Elem()
	switch {
	case typ.Implements(reflect.TypeOf((*cloner)(nil)).Elem()):
		return ValueClonerFunc[V](func(v V) V {
			if c, ok := any(v).(cloner); ok && !isNilPointer(v) {
				return c.Clone()
			}
			return v
		})

	case typ.Implements(reflect.TypeOf((*deepCopier)(nil)).Elem()):
		return ValueClonerFunc[V](func(v V) V {
			if c, ok := any(v).(deepCopier); ok && !isNilPointer(v) {
				return c.DeepCopy()
			}
			return v
		})

	default:
		return NopValueCloner[V]{}
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
