package errors

import (
	"strings"
	"testing"
)

func TestValidateChromosome(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "17", false},
		{"prefixed", "chr17", false},
		{"mito", "chrM", false},

		{"empty", "", true},
		{"too long", strings.Repeat("1", 65), true},
		{"space", "chr 1", true},
		{"control char", "chr\x011", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChromosome(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChromosome(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "payload.json", false},
		{"absolute", "/data/tp53.json", false},
		{"nested", "data/tracks/tp53.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"traversal", "../secret.json", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateMongoURI(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"mongodb://localhost:27017", false},
		{"mongodb+srv://cluster.example.org", false},
		{"", true},
		{"http://localhost:27017", true},
	}

	for _, tt := range tests {
		err := ValidateMongoURI(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMongoURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
