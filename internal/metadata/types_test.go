package metadata

import (
	"errors"
	"testing"
	"time"
)

func TestTypeByName(t *testing.T) {
	for _, name := range []string{"string", "int", "float", "bool", "datetime"} {
		typ, err := TypeByName(name)
		if err != nil {
			t.Fatalf("TypeByName(%q) error = %v", name, err)
		}
		if typ.Name() != name {
			t.Errorf("Name() = %q, want %q", typ.Name(), name)
		}
	}

	if _, err := TypeByName("complex128"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("TypeByName() error = %v, want ErrUnknownType", err)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		typeName string
		value    any
		want     string
		wantErr  error
	}{
		{"string", "Widget", "Widget", nil},
		{"string", 5, "", ErrWrongValueKind},
		{"int", 42, "42", nil},
		{"int", float64(42), "42", nil},
		{"int", 4.5, "", ErrValueOutOfRange},
		{"int", "42", "", ErrWrongValueKind},
		{"float", 9.99, "9.99", nil},
		{"float", 3, "3", nil},
		{"bool", true, "true", nil},
		{"bool", "true", "", ErrWrongValueKind},
		{"datetime", "2026-08-30T10:00:00Z", "2026-08-30T10:00:00Z", nil},
	}

	for _, tt := range tests {
		typ, err := TypeByName(tt.typeName)
		if err != nil {
			t.Fatalf("TypeByName(%q) error = %v", tt.typeName, err)
		}
		got, err := typ.FormatValue(tt.value)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%s.FormatValue(%v) error = %v, want %v", tt.typeName, tt.value, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s.FormatValue(%v) error = %v", tt.typeName, tt.value, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s.FormatValue(%v) = %q, want %q", tt.typeName, tt.value, got, tt.want)
		}
	}
}

func TestFormatValue_Nil(t *testing.T) {
	nullable, err := TypeWithConstraints("string", Constraints{Nullable: true})
	if err != nil {
		t.Fatal(err)
	}
	if got, err := nullable.FormatValue(nil); err != nil || got != "" {
		t.Errorf("FormatValue(nil) = %q, %v; want empty, nil", got, err)
	}

	strict, err := TypeWithConstraints("string", Constraints{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := strict.FormatValue(nil); !errors.Is(err, ErrWrongValueKind) {
		t.Errorf("FormatValue(nil) error = %v, want ErrWrongValueKind", err)
	}
}

func TestStringType_MaxLength(t *testing.T) {
	typ, err := TypeWithConstraints("string", Constraints{MaxLength: 5})
	if err != nil {
		t.Fatal(err)
	}

	if got, err := typ.FormatValue("short"); err != nil || got != "short" {
		t.Errorf("FormatValue(short) = %q, %v", got, err)
	}
	if _, err := typ.FormatValue("much too long"); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("FormatValue() error = %v, want ErrValueOutOfRange", err)
	}
	if _, err := typ.ParseValue("much too long"); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("ParseValue() error = %v, want ErrValueOutOfRange", err)
	}
}

func TestParseValue(t *testing.T) {
	intType, _ := TypeByName("int")
	if v, err := intType.ParseValue("17"); err != nil || v != int64(17) {
		t.Errorf("int.ParseValue() = %v, %v; want 17", v, err)
	}
	if _, err := intType.ParseValue("seventeen"); err == nil {
		t.Error("int.ParseValue(seventeen) expected error")
	}

	boolType, _ := TypeByName("bool")
	if v, err := boolType.ParseValue("true"); err != nil || v != true {
		t.Errorf("bool.ParseValue() = %v, %v; want true", v, err)
	}

	dtType, _ := TypeByName("datetime")
	v, err := dtType.ParseValue("2026-08-30T10:00:00Z")
	if err != nil {
		t.Fatalf("datetime.ParseValue() error = %v", err)
	}
	if ts, ok := v.(time.Time); !ok || ts.Year() != 2026 {
		t.Errorf("datetime.ParseValue() = %v, want 2026 time", v)
	}
}
