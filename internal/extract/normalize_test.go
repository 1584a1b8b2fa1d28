package extract_test

import (
	"errors"
	"testing"
	"time"

	"github.com/parlwatch/pspcrawl/internal/extract"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Poslanecká sněmovna", "Poslanecká sněmovna"},
		{"non-breaking spaces", "18. 4. 2023", "18. 4. 2023"},
		{"collapse whitespace", "  40.   schůze \n", "40. schůze"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extract.CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCzechDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"spaces after dots", "18. 4. 2023", time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC), false},
		{"non-breaking spaces", "18. 4. 2023", time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC), false},
		{"compact", "1.12.1999", time.Date(1999, 12, 1, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "schůze", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract.ParseCzechDate(tt.input)

			if tt.wantErr {
				if !errors.Is(err, extract.ErrBadDate) {
					t.Errorf("ParseCzechDate(%q) error = %v, want ErrBadDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCzechDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseCzechDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
