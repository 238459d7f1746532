package utils

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name: "error with field",
			err: ValidationError{
				Field:   "directory",
				Value:   "",
				Message: "cannot be empty",
			},
			expected: "validation error for field 'directory': cannot be empty",
		},
		{
			name: "error without field",
			err: ValidationError{
				Message: "invalid format",
			},
			expected: "validation error: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNotEmpty(t *testing.T) {
	validator := NotEmpty("test_field")

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid string", "hello", false},
		{"empty string", "", true},
		{"whitespace only", "   ", false}, // NotEmpty only checks for empty, not whitespace
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NotEmpty() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasSuffix(t *testing.T) {
	validator := HasSuffix("goModPath", "go.mod")

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid go.mod path", "project/go.mod", false},
		{"bare go.mod", "go.mod", false},
		{"wrong file", "project/go.sum", true},
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("HasSuffix() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSliceNotEmpty(t *testing.T) {
	validator := SliceNotEmpty[string]("directories")

	tests := []struct {
		name    string
		value   []string
		wantErr bool
	}{
		{"valid slice", []string{"./internal", "./pkg"}, false},
		{"single item", []string{"."}, false},
		{"empty slice", []string{}, true},
		{"nil slice", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("SliceNotEmpty() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEach(t *testing.T) {
	validator := ValidateEach("directories", NotEmpty("directory"))

	tests := []struct {
		name    string
		value   []string
		wantErr bool
	}{
		{"all valid", []string{"./internal", "./pkg"}, false},
		{"one invalid", []string{"./internal", ""}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEach() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(
		NotEmpty("goModPath"),
		HasSuffix("goModPath", "go.mod"),
	)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid path", "project/go.mod", false},
		{"empty string", "", true},
		{"wrong suffix", "project/go.sum", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := chain.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatorChain.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
