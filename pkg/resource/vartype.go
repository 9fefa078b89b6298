package resource

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// VarType converts a variable path component between its wire form (a
// path segment) and a typed value. Parse is used during dispatch,
// Format during URL generation. Implementations must be stateless and
// safe for concurrent use.
type VarType interface {
	// Name is the stable type tag used in serialized patterns, e.g. "int".
	Name() string

	// Parse converts a path segment into a typed value.
	Parse(s string) (any, error)

	// Format converts a value into its external path representation.
	Format(v any) (string, error)
}

// Built-in variable types.
var (
	String VarType = stringType{}
	Int    VarType = intType{}
	Float  VarType = floatType{}
	UUID   VarType = uuidType{}
)

// TypeByName returns the built-in type for a serialized type tag.
// An empty tag means string.
func TypeByName(name string) (VarType, bool) {
	switch name {
	case "", "string":
		return String, true
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "uuid":
		return UUID, true
	}
	return nil, false
}

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Parse(s string) (any, error) {
	if s == "" {
		return nil, fmt.Errorf("empty component")
	}
	return s, nil
}

func (stringType) Format(v any) (string, error) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		return "", fmt.Errorf("cannot format %T as string component", v)
	}
	return checkSegment(s)
}

type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Parse(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return int(n), nil
}

func (intType) Format(v any) (string, error) {
	switch t := v.(type) {
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case string:
		if _, err := strconv.ParseInt(t, 10, 64); err != nil {
			return "", fmt.Errorf("invalid integer %q", t)
		}
		return t, nil
	}
	return "", fmt.Errorf("cannot format %T as int component", v)
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Parse(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid float %q", s)
	}
	return f, nil
}

func (floatType) Format(v any) (string, error) {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), nil
	case int:
		return strconv.Itoa(t), nil
	case string:
		if _, err := strconv.ParseFloat(t, 64); err != nil {
			return "", fmt.Errorf("invalid float %q", t)
		}
		return t, nil
	}
	return "", fmt.Errorf("cannot format %T as float component", v)
}

type uuidType struct{}

func (uuidType) Name() string { return "uuid" }

func (uuidType) Parse(s string) (any, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid uuid %q", s)
	}
	return id, nil
}

func (uuidType) Format(v any) (string, error) {
	switch t := v.(type) {
	case uuid.UUID:
		return t.String(), nil
	case string:
		id, err := uuid.Parse(t)
		if err != nil {
			return "", fmt.Errorf("invalid uuid %q", t)
		}
		return id.String(), nil
	}
	return "", fmt.Errorf("cannot format %T as uuid component", v)
}

// checkSegment rejects values that would not survive a round-trip
// through a path, such as embedded slashes.
func checkSegment(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty component value")
	}
	if strings.ContainsAny(s, "/?#") {
		return "", fmt.Errorf("component value %q contains reserved characters", s)
	}
	return s, nil
}
