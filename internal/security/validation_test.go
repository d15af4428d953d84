package security

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https sprite", url: "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/1.png"},
		{name: "empty", url: "", wantErr: true},
		{name: "plain http", url: "http://example.com/a.png", wantErr: true},
		{name: "no host", url: "https:///a.png", wantErr: true},
		{name: "localhost", url: "https://localhost/a.png", wantErr: true},
		{name: "private range", url: "https://192.168.1.10/a.png", wantErr: true},
		{name: "link local", url: "https://169.254.169.254/latest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHTTPURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestLimitedReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int64
		wantErr error
	}{
		{name: "under limit", input: "abc", limit: 10},
		{name: "exactly at limit", input: "abcd", limit: 4},
		{name: "over limit", input: "abcdef", limit: 4, wantErr: ErrSizeLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := io.ReadAll(NewLimitedReader(strings.NewReader(tt.input), tt.limit))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ReadAll() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(data) != tt.input {
				t.Errorf("ReadAll() = %q, want %q", data, tt.input)
			}
		})
	}
}
