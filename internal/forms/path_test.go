package forms

import "testing"

func TestParsePath(t *testing.T) {
	tests := []struct {
		path    string
		want    int // segment count
		wantErr bool
	}{
		{"name", 1, false},
		{"connection.url", 2, false},
		{"servers[0]", 2, false},
		{"servers[2].env[0].value", 5, false},
		{"", 0, true},
		{"servers[x]", 0, true},
		{"servers[-1]", 0, true},
		{"servers[0", 0, true},
		{"a..b", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			segs, err := parsePath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parsePath(%q) expected error", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePath(%q): %v", tt.path, err)
			}
			if len(segs) != tt.want {
				t.Errorf("parsePath(%q) = %d segments, want %d", tt.path, len(segs), tt.want)
			}
		})
	}
}
