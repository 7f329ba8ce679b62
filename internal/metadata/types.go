package metadata

import (
	"fmt"
	"strconv"
	"time"
)

// Type converts between raw model values and their display form.
type Type interface {
	// Name returns the declared type name (e.g. "string", "int").
	Name() string

	// FormatValue renders a raw model value for display.
	FormatValue(value any) (string, error)

	// ParseValue converts a display string back to a raw value.
	ParseValue(s string) (any, error)
}

// Constraints restricts the values a type accepts.
type Constraints struct {
	// Nullable permits nil values; they format to the empty string.
	Nullable bool

	// MaxLength limits formatted string length. Zero means unlimited.
	MaxLength int
}

// TypeByName returns the unconstrained type registered under name.
func TypeByName(name string) (Type, error) {
	return TypeWithConstraints(name, Constraints{Nullable: true})
}

// TypeWithConstraints returns the type registered under name with the
// given constraints applied.
func TypeWithConstraints(name string, c Constraints) (Type, error) {
	switch name {
	case "string":
		return &stringType{constraints: c}, nil
	case "int":
		return &intType{constraints: c}, nil
	case "float":
		return &floatType{constraints: c}, nil
	case "bool":
		return &boolType{constraints: c}, nil
	case "datetime":
		return &dateTimeType{constraints: c}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}

// checkNil handles the shared nil-value policy. The bool reports
// whether the value was nil and already handled.
func checkNil(value any, c Constraints) (string, bool, error) {
	if value != nil {
		return "", false, nil
	}
	if !c.Nullable {
		return "", true, fmt.Errorf("%w: nil", ErrWrongValueKind)
	}
	return "", true, nil
}

type stringType struct {
	constraints Constraints
}

func (t *stringType) Name() string { return "string" }

func (t *stringType) FormatValue(value any) (string, error) {
	if s, done, err := checkNil(value, t.constraints); done {
		return s, err
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %T is not a string", ErrWrongValueKind, value)
	}
	if t.constraints.MaxLength > 0 && len(s) > t.constraints.MaxLength {
		return "", fmt.Errorf("%w: length %d exceeds %d", ErrValueOutOfRange, len(s), t.constraints.MaxLength)
	}
	return s, nil
}

func (t *stringType) ParseValue(s string) (any, error) {
	if t.constraints.MaxLength > 0 && len(s) > t.constraints.MaxLength {
		return nil, fmt.Errorf("%w: length %d exceeds %d", ErrValueOutOfRange, len(s), t.constraints.MaxLength)
	}
	return s, nil
}

type intType struct {
	constraints Constraints
}

func (t *intType) Name() string { return "int" }

func (t *intType) FormatValue(value any) (string, error) {
	if s, done, err := checkNil(value, t.constraints); done {
		return s, err
	}
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		// JSON numbers decode as float64.
		if v != float64(int64(v)) {
			return "", fmt.Errorf("%w: %v is not integral", ErrValueOutOfRange, v)
		}
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", fmt.Errorf("%w: %T is not an integer", ErrWrongValueKind, value)
	}
}

func (t *intType) ParseValue(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %q as int: %w", s, err)
	}
	return n, nil
}

type floatType struct {
	constraints Constraints
}

func (t *floatType) Name() string { return "float" }

func (t *floatType) FormatValue(value any) (string, error) {
	if s, done, err := checkNil(value, t.constraints); done {
		return s, err
	}
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", fmt.Errorf("%w: %T is not a float", ErrWrongValueKind, value)
	}
}

func (t *floatType) ParseValue(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %q as float: %w", s, err)
	}
	return f, nil
}

type boolType struct {
	constraints Constraints
}

func (t *boolType) Name() string { return "bool" }

func (t *boolType) FormatValue(value any) (string, error) {
	if s, done, err := checkNil(value, t.constraints); done {
		return s, err
	}
	b, ok := value.(bool)
	if !ok {
		return "", fmt.Errorf("%w: %T is not a bool", ErrWrongValueKind, value)
	}
	return strconv.FormatBool(b), nil
}

func (t *boolType) ParseValue(s string) (any, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("parsing %q as bool: %w", s, err)
	}
	return b, nil
}

type dateTimeType struct {
	constraints Constraints
}

func (t *dateTimeType) Name() string { return "datetime" }

func (t *dateTimeType) FormatValue(value any) (string, error) {
	if s, done, err := checkNil(value, t.constraints); done {
		return s, err
	}
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339), nil
	case string:
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return "", fmt.Errorf("parsing %q as datetime: %w", v, err)
		}
		return ts.Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("%w: %T is not a datetime", ErrWrongValueKind, value)
	}
}

func (t *dateTimeType) ParseValue(s string) (any, error) {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("parsing %q as datetime: %w", s, err)
	}
	return ts, nil
}
