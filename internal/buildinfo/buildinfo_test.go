package buildinfo

import "testing"

func TestShortAndFull(t *testing.T) {
	save := [3]string{Version, Commit, Date}
	defer func() { Version, Commit, Date = save[0], save[1], save[2] }()

	tests := []struct {
		version, commit, date string
		short, full           string
	}{
		{"dev", "unknown", "unknown", "dev", "dev"},
		{"dev", "abc123", "unknown", "abc123", "abc123"},
		{"v1.0.3", "abc123", "2026-10-01", "v1.0.3", "v1.0.3+abc123 2026-10-01"},
		{"", "", "", "dev", "dev"},
	}
	for _, tt := range tests {
		Version, Commit, Date = tt.version, tt.commit, tt.date
		if got := Short(); got != tt.short {
			t.Fatalf("Short() = %q, want %q", got, tt.short)
		}
		if got := Full(); got != tt.full {
			t.Fatalf("Full() = %q, want %q", got, tt.full)
		}
	}
}
