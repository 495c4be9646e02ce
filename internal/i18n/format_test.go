package i18n

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		tag     language.Tag
		pattern string
		args    []any
		want    string
	}{
		{"no placeholders", language.English, "English 1", nil, "English 1"},
		{"single string", language.English, "English 2 - {0}", []any{"args"}, "English 2 - args"},
		{"german", language.German, "German 2 - {0}", []any{"args"}, "German 2 - args"},
		{"reordered", language.English, "{1} before {0}", []any{"a", "b"}, "b before a"},
		{"repeated", language.English, "{0}{0}", []any{"x"}, "xx"},
		{"missing argument kept", language.English, "value {0} and {1}", []any{"a"}, "value a and {1}"},
		{"no args keeps placeholder", language.English, "English 3 - {0}", nil, "English 3 - {0}"},
		{"escaped quote", language.English, "it''s {0}", []any{"fine"}, "it's fine"},
		{"quoted braces", language.English, "'{0}' is {0}", []any{"x"}, "{0} is x"},
		{"nil argument", language.English, "{0}", []any{nil}, "null"},
		{"bool argument", language.English, "{0}", []any{true}, "true"},
		{"spaces in placeholder", language.English, "{ 0 }", []any{"x"}, "x"},
		{"stray closing brace", language.English, "a } b", nil, "a } b"},
		{"number en", language.English, "{0,number}", []any{1234.5}, "1,234.5"},
		{"number de", language.German, "{0,number}", []any{1234.5}, "1.234,5"},
		{"plain number is localized", language.English, "{0}", []any{1234567}, "1,234,567"},
		{"integer style", language.English, "{0,number,integer}", []any{1234.6}, "1,235"},
		{"percent style", language.English, "{0,number,percent}", []any{0.25}, "25%"},
		{"json number", language.English, "{0,number}", []any{json.Number("42")}, "42"},
		{"decimal", language.English, "{0,number}", []any{decimal.RequireFromString("2.5")}, "2.5"},
		{
			"date short",
			language.English,
			"on {0,date,short}",
			[]any{time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
			"on 2026-03-14",
		},
		{
			"time short",
			language.English,
			"at {0,time,short}",
			[]any{time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
			"at 09:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.tag, tt.pattern, tt.args...)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_Errors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		args    []any
		wantErr error
	}{
		{"unterminated", "value {0", []any{"a"}, ErrMalformedPattern},
		{"bad index", "{x}", []any{"a"}, ErrMalformedPattern},
		{"negative index", "{-1}", []any{"a"}, ErrMalformedPattern},
		{"unknown type", "{0,choice,0#none}", []any{1}, ErrMalformedPattern},
		{"string as number", "{0,number}", []any{"abc"}, ErrArgumentType},
		{"number as date", "{0,date}", []any{5}, ErrArgumentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(language.English, tt.pattern, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Format() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormat_Deterministic(t *testing.T) {
	first, err := Format(language.German, "{0} / {1,number}", "a", 1.5)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, _ := Format(language.German, "{0} / {1,number}", "a", 1.5)
		if again != first {
			t.Fatalf("Format() not deterministic: %q vs %q", again, first)
		}
	}
}
