package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeFeatures(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "keeps order",
			input: []string{"Usisavanje", "Brisanje prašine", "Pranje podova"},
			want:  []string{"Usisavanje", "Brisanje prašine", "Pranje podova"},
		},
		{
			name:  "collapse whitespace",
			input: []string{"  Pranje   prozora "},
			want:  []string{"Pranje prozora"},
		},
		{
			name:  "remove duplicates",
			input: []string{"Usisavanje", "Usisavanje ", " Usisavanje"},
			want:  []string{"Usisavanje"},
		},
		{
			name:  "filter empty strings",
			input: []string{"Usisavanje", "", "  "},
			want:  []string{"Usisavanje"},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFeatures(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeFeatures(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
