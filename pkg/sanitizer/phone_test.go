package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+385912345678",
			want:  "+385912345678",
		},
		{
			name:  "with spaces",
			input: "+385 91 234 5678",
			want:  "+385912345678",
		},
		{
			name:  "national format defaults to Croatia",
			input: "091 234 5678",
			want:  "+385912345678",
		},
		{
			name:  "with dashes",
			input: "098-123-4567",
			want:  "+385981234567",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +385912345678  ",
			want:  "+385912345678",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "letters only",
			input: "call me",
			want:  "",
		},
		{
			name:  "too short",
			input: "+3",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	first := NormalizePhone("091 234 5678")
	second := NormalizePhone(first)
	if first != second {
		t.Errorf("NormalizePhone is not idempotent: %q then %q", first, second)
	}
}
