package ansi

import "testing"

func TestHeader(t *testing.T) {
	t.Parallel()

	prefix := Dim + "**" + Reset + " " + Bright
	postfix := Reset + " " + Dim + "**" + Reset
	cases := []struct{ in, want string }{
		{"", prefix + postfix},
		{"  ", prefix + postfix},
		{"foo", prefix + "foo" + postfix},
		{" foo ", prefix + "foo" + postfix},
		{"Lorem  Ipsum", prefix + "Lorem  Ipsum" + postfix},
	}
	for _, c := range cases {
		if got := Header(c.in); got != c.want {
			t.Fatalf("Header(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"", 30, ""},
		{"   ", 3, "   "},
		{"    ", 3, "   ..."},
		{"    ", 0, "    "},
		{"    ", -30, "    "},
		{"Lorem Ipsum", 12, "Lorem Ipsum"},
		{"Lorem Ipsum", 11, "Lorem Ipsum"},
		{"Lorem Ipsum", 10, "Lorem Ipsu..."},
		{"Lorem Ipsum", 8, "Lorem Ip..."},
		{" Lorem Ipsu", 9, " Lorem Ip..."},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.max); got != c.want {
			t.Fatalf("Truncate(%q, %d)=%q, want %q", c.in, c.max, got, c.want)
		}
	}
}
