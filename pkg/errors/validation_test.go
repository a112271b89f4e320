package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "demo", false},
		{"valid with dash", "five-nodes", false},
		{"valid with spaces", "slow drift", false},
		{"valid with dot", "demo.v2", false},

		{"too long", strings.Repeat("a", 129), true},
		{"path traversal ..", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateColour(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#b58900", false},
		{"#CB4B16", false},
		{"#000000", false},

		{"", true},
		{"b58900", true},
		{"#b5890", true},
		{"#b589000", true},
		{"#b5890g", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColour(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColour(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidColour) {
				t.Errorf("ValidateColour(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateCacheURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default", "", false},
		{"none", "none", false},
		{"bare dir", "/tmp/snowball", false},
		{"file", "file:///tmp/snowball", false},
		{"redis", "redis://localhost:6379/0", false},
		{"rediss", "rediss://cache.internal:6380", false},
		{"mongo", "mongodb://localhost:27017/snowball", false},
		{"mongo srv", "mongodb+srv://cluster.example.net/snowball", false},

		{"http", "http://example.com", true},
		{"control char", "redis://local\x01host", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCacheURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCacheURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidScenario,
		ErrCodeInvalidFormat,
		ErrCodeInvalidParams,
		ErrCodeInvalidColour,
		ErrCodeInvalidName,
		ErrCodeInvalidCacheURL,
		ErrCodeMissingNode,
		ErrCodeUnknownNode,
		ErrCodeDuplicateNode,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeTooLarge,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
