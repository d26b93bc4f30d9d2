package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	v := New()
	require.NotNil(t, v, "New() should return a non-nil validator")
}

func TestNotblankValidator(t *testing.T) {
	v := New()

	type TestStruct struct {
		Name string `validate:"notblank"`
	}

	testCases := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "valid_string", input: "Asha", expectError: false},
		{name: "valid_with_spaces", input: "  Asha  ", expectError: false},
		{name: "whitespace_only_spaces", input: "   ", expectError: true},
		{name: "whitespace_only_tabs", input: "\t\t", expectError: true},
		{name: "whitespace_mixed", input: " \t\n ", expectError: true},
		{name: "empty_string", input: "", expectError: true},
		{name: "unicode_content", input: "आशा", expectError: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(TestStruct{Name: tc.input})
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCurrencyValidator(t *testing.T) {
	v := New()

	type TestStruct struct {
		Currency string `validate:"omitempty,currency"`
	}

	testCases := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "upper", input: "INR", expectError: false},
		{name: "lower", input: "usd", expectError: false},
		{name: "empty_is_optional", input: "", expectError: false},
		{name: "too_short", input: "IN", expectError: true},
		{name: "too_long", input: "INRR", expectError: true},
		{name: "digits", input: "1NR", expectError: true},
		{name: "non_ascii", input: "₹NR", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(TestStruct{Currency: tc.input})
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
