package match

import (
	"reflect"

	"github.com/eizengan/reforge/internal/common"
)

// TypeCompatibility represents how a value of one type reaches a parameter
// of another.
type TypeCompatibility int

const (
	// TypeIncompatible means the value cannot be passed.
	TypeIncompatible TypeCompatibility = iota
	// TypeConvertible means both types are numeric; the value may be
	// converted when no precision is lost.
	TypeConvertible
	// TypeAssignable means the value can be passed as is.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical    = "identical"
	VerdictAssignable   = "assignable"
	VerdictConvertible  = "convertible"
	VerdictIncompatible = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return common.UnknownStr
	}
}

// ScoreTypeCompatibility determines the compatibility between a source and
// target type. Only numeric conversions count as convertible: reflect also
// converts integers to strings, which never means what a rule intends.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibility {
	switch {
	case source == nil || target == nil:
		return TypeIncompatible
	case source == target:
		return TypeIdentical
	case source.AssignableTo(target):
		return TypeAssignable
	case IsNumericKind(source.Kind()) && IsNumericKind(target.Kind()):
		return TypeConvertible
	default:
		return TypeIncompatible
	}
}

// ConvertExact converts v to target when the types are compatible and the
// conversion round-trips, e.g. float64(3) to int but not 3.5.
func ConvertExact(v reflect.Value, target reflect.Type) (reflect.Value, bool) {
	switch ScoreTypeCompatibility(v.Type(), target) {
	case TypeIdentical, TypeAssignable:
		return v, true
	case TypeConvertible:
		c := v.Convert(target)
		if !c.Convert(v.Type()).Equal(v) {
			return reflect.Value{}, false
		}

		// negative values survive a round trip through unsigned types
		if isNegative(v) && isUnsignedKind(target.Kind()) {
			return reflect.Value{}, false
		}

		return c, true
	default:
		return reflect.Value{}, false
	}
}

// IsNumericKind returns true for integer and floating point kinds.
func IsNumericKind(k reflect.Kind) bool {
	return (reflect.Int <= k && k <= reflect.Uintptr) || k == reflect.Float32 || k == reflect.Float64
}

func isUnsignedKind(k reflect.Kind) bool {
	return reflect.Uint <= k && k <= reflect.Uintptr
}

func isNegative(v reflect.Value) bool {
	switch {
	case reflect.Int <= v.Kind() && v.Kind() <= reflect.Int64:
		return v.Int() < 0
	case v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64:
		return v.Float() < 0
	default:
		return false
	}
}
