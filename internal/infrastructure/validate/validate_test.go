package validate

import "testing"

func TestFieldFirstFailureWins(t *testing.T) {
	v := Field("username", Required(), MaxLength(4), Printable())

	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"ok", "ana", ""},
		{"empty", "  ", "username: is required"},
		{"too long", "abcde", "username: must be at most 4 characters"},
		{"multibyte within limit", "élan", ""},
		{"control char", "a\tb", "username: must not contain control characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v(tt.in)
			got := ""
			if err != nil {
				got = err.Error()
			}
			if got != tt.wantErr {
				t.Fatalf("validate(%q) = %q, want %q", tt.in, got, tt.wantErr)
			}
		})
	}
}

func TestOneOf(t *testing.T) {
	err := Field("language", OneOf("c", "cpp"))("go")
	if err == nil || err.Error() != "language: must be one of: c, cpp" {
		t.Fatalf("unexpected error %v", err)
	}
	if err := OneOf("c", "cpp")("cpp"); err != nil {
		t.Fatal(err)
	}
}

func TestPathSafe(t *testing.T) {
	for _, in := range []string{"a/b", "a?b", "a b", "a%2F"} {
		if PathSafe()(in) == nil {
			t.Errorf("%q accepted", in)
		}
	}
	if err := PathSafe()("team-42_x"); err != nil {
		t.Fatal(err)
	}
}
