package normalize

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Julio Verne", "julio verne"},
		{"JULIO VERNE", "julio verne"},
		{"García Márquez", "garcía márquez"},
		// Decomposed accent folds to the composed form.
		{"Garci\u0301a", "garc\u00eda"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Fold(tt.input); got != tt.expected {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, substr string
		expected  bool
	}{
		{"Julio Verne", "ulio v", true},
		{"Julio Verne", "ULIO V", true},
		{"Julio Verne", "verne", true},
		{"Julio Verne", "jules", false},
		{"Gabriel García Márquez", "GARCÍA", true},
		{"Isabel Allende", "", true},
		{"", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.s+"/"+tt.substr, func(t *testing.T) {
			if got := ContainsFold(tt.s, tt.substr); got != tt.expected {
				t.Errorf("ContainsFold(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.expected)
			}
		})
	}
}

func TestField(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"\ufeffNombre", "Nombre"},
		{"No\x00vela", "Novela"},
		{" spaced ", " spaced "},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Field(tt.input); got != tt.expected {
				t.Errorf("Field(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
