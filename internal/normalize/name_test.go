package normalize

import (
	"testing"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "district qualifier and state",
			input: "Nagaon District, Assam",
			want:  "nagaon assam",
		},
		{
			name:  "already plain",
			input: "nagaon assam",
			want:  "nagaon assam",
		},
		{
			name:  "embedded qualifier word survives",
			input: "Blockapur",
			want:  "blockapur",
		},
		{
			name:  "mandal with punctuation",
			input: "Guntur Mandal (East)",
			want:  "guntur east",
		},
		{
			name:  "taluka variant",
			input: "Karveer Taluka",
			want:  "karveer",
		},
		{
			name:  "conjunction removed",
			input: "Daman and Diu",
			want:  "daman diu",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only qualifiers",
			input: "District",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameEquivalence(t *testing.T) {
	a := Name("Nagaon District, Assam")
	b := Name("nagaon assam")
	if a != b {
		t.Errorf("expected equal keys, got %q and %q", a, b)
	}
}

func TestCleanVillageName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Rampur*", "Rampur"},
		{"Rampur (North)", "Rampur"},
		{"Rampur/Ramapuram", "Rampur"},
		{"Rampur  Khurd", "Rampur Khurd"},
		{"Sri. Rampur-Kalan", "Sri. Rampur-Kalan"},
		{"Rampur@#", "Rampur"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CleanVillageName(tt.input)
			if got != tt.want {
				t.Errorf("CleanVillageName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
