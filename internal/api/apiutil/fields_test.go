package apiutil

import "testing"

func TestParseDateField(t *testing.T) {
	if _, err := ParseDateField("2026-09-12", "game_date"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}

	for _, raw := range []string{"", "09/12/2026", "2026-13-01", "2026-02-30"} {
		if _, err := ParseDateField(raw, "game_date"); err == nil {
			t.Errorf("ParseDateField(%q) accepted, want error", raw)
		}
	}
}

func TestParseTimeField(t *testing.T) {
	for _, raw := range []string{"00:00", "09:30", "23:59"} {
		if _, err := ParseTimeField(raw, "game_time"); err != nil {
			t.Errorf("ParseTimeField(%q) rejected: %v", raw, err)
		}
	}
	for _, raw := range []string{"", "24:00", "9:30 PM", "noon"} {
		if _, err := ParseTimeField(raw, "game_time"); err == nil {
			t.Errorf("ParseTimeField(%q) accepted, want error", raw)
		}
	}
}

func TestParseContactField(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"coach@metro.test", "coach@metro.test", false},
		{"(202) 555-0134", "+12025550134", false},
		{"+1 202 555 0134", "+12025550134", false},
		{"", "", true},
		{"555", "", true},
		{"not a contact", "", true},
	}

	for _, tt := range tests {
		got, err := ParseContactField(tt.input, "requester_contact")
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseContactField(%q) = %q, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseContactField(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseContactField(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParsePositiveInt64Field(t *testing.T) {
	if v, err := ParsePositiveInt64Field("42", "limit"); err != nil || v != 42 {
		t.Errorf("ParsePositiveInt64Field(42) = %d, %v", v, err)
	}
	for _, raw := range []string{"", "0", "-5", "abc"} {
		if _, err := ParsePositiveInt64Field(raw, "limit"); err == nil {
			t.Errorf("ParsePositiveInt64Field(%q) accepted, want error", raw)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", " second ", "third"); got != "second" {
		t.Errorf("FirstNonEmpty = %q, want %q", got, "second")
	}
	if got := FirstNonEmpty("", "   "); got != "" {
		t.Errorf("FirstNonEmpty = %q, want empty", got)
	}
}
