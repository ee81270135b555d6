package transform

import (
	"fmt"
	"reflect"

	"github.com/eizengan/reforge/internal/match"
)

var errorType = reflect.TypeFor[error]()

// callable is a function value validated for use as a transform.
//
// Supported signatures:
//   - func() R
//   - func() (R, error)
//   - func(S) R
//   - func(S) (R, error)
type callable struct {
	fn     reflect.Value
	in     reflect.Type // nil when the function takes no argument
	hasErr bool

	// direct skips reflection for the common untyped signatures.
	direct func(any) (any, error)
}

func parseCallable(fn any) (*callable, error) {
	switch f := fn.(type) {
	case nil:
		return nil, ErrNotCallable
	case func(any) (any, error):
		if f == nil {
			return nil, ErrNotCallable
		}

		return &callable{direct: f, in: reflect.TypeFor[any]()}, nil
	case func(any) any:
		if f == nil {
			return nil, ErrNotCallable
		}

		return &callable{
			direct: func(v any) (any, error) { return f(v), nil },
			in:     reflect.TypeFor[any](),
		}, nil
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func || fnVal.IsNil() {
		return nil, ErrNotCallable
	}

	if fnType.IsVariadic() || fnType.NumIn() > 1 {
		return nil, ErrBadSignature
	}

	c := &callable{fn: fnVal}
	if fnType.NumIn() == 1 {
		c.in = fnType.In(0)
	}

	switch fnType.NumOut() {
	default:
		return nil, ErrBadSignature

	case 1:
		if fnType.Out(0) == errorType {
			return nil, ErrBadSignature
		}

	case 2:
		if fnType.Out(1) != errorType {
			return nil, ErrBadSignature
		}

		c.hasErr = true
	}

	return c, nil
}

// arity returns the number of parameters of the function.
func (c *callable) arity() int {
	if c.in == nil {
		return 0
	}

	return 1
}

// call invokes the function, passing source unless the function takes no
// argument.
func (c *callable) call(source any) (any, error) {
	if c.direct != nil {
		return c.direct(source)
	}

	var args []reflect.Value

	if c.in != nil {
		arg, err := argument(c.in, source)
		if err != nil {
			return nil, err
		}

		args = []reflect.Value{arg}
	}

	out := c.fn.Call(args)

	if c.hasErr {
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
	}

	return out[0].Interface(), nil
}

func argument(in reflect.Type, source any) (reflect.Value, error) {
	if source == nil {
		if isNillableKind(in.Kind()) {
			return reflect.Zero(in), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: cannot pass nil as %s", ErrArgument, in)
	}

	v := reflect.ValueOf(source)

	// numbers decoded from JSON are float64; integral ones fit int parameters
	if arg, ok := match.ConvertExact(v, in); ok {
		return arg, nil
	}

	if match.ScoreTypeCompatibility(v.Type(), in) == match.TypeConvertible {
		return reflect.Value{}, fmt.Errorf("%w: %v does not fit %s", ErrArgument, source, in)
	}

	return reflect.Value{}, fmt.Errorf("%w: cannot pass %s as %s", ErrArgument, v.Type(), in)
}

func isNillableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
