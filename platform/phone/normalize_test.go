package phone

import "testing"

func TestE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"02 1234 5678", "+390212345678"},
		{"+39 333 123 4567", "+393331234567"},
		{"  ", ""},
		{"not a number", ""},
	}

	for _, tc := range cases {
		if got := E164(tc.in); got != tc.want {
			t.Fatalf("E164(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
