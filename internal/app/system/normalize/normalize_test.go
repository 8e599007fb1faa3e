package normalize

import "testing"

func TestEmail(t *testing.T) {
	cases := map[string]string{
		"  Juan@Example.COM ": "juan@example.com",
		"plain@example.com":   "plain@example.com",
		"":                    "",
		"   ":                 "",
	}
	for in, want := range cases {
		if got := Email(in); got != want {
			t.Errorf("Email(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestName(t *testing.T) {
	cases := map[string]string{
		"  Juan   Dela   Cruz ": "Juan Dela Cruz",
		"Maria\tSantos":         "Maria Santos",
		"single":                "single",
		"":                      "",
	}
	for in, want := range cases {
		if got := Name(in); got != want {
			t.Errorf("Name(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := map[string]string{
		"+63 917 123 4567": "+639171234567",
		"(02) 8888-1234":   "0288881234",
		"0917-123-4567":    "09171234567",
		// A plus sign only counts at the front.
		"0917+1234567": "09171234567",
	}
	for in, want := range cases {
		if got := Phone(in); got != want {
			t.Errorf("Phone(%q): got %q, want %q", in, got, want)
		}
	}
}
