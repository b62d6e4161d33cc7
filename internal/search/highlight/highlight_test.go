package highlight

import "testing"

func TestHighlight(t *testing.T) {
	cases := []struct {
		text, query, want string
	}{
		{"Acme Studio Srl", "acme", "<mark>Acme</mark> Studio Srl"},
		{"Studio ACME e acme", "Acme", "Studio <mark>ACME</mark> e <mark>acme</mark>"},
		{"aaaa", "aa", "<mark>aa</mark><mark>aa</mark>"},
		{"Caffè Città", "CITTÀ", "Caffè <mark>Città</mark>"},
		{"Rossi Mario", "verdi", "Rossi Mario"},
		{"Rossi Mario", "", "Rossi Mario"},
		{"", "acme", ""},
		{"Ro", "Rossi", "Ro"},
	}

	for _, tc := range cases {
		if got := Highlight(tc.text, tc.query); got != tc.want {
			t.Fatalf("Highlight(%q, %q) = %q, want %q", tc.text, tc.query, got, tc.want)
		}
	}
}

func TestHighlightEscapesMarkup(t *testing.T) {
	cases := []struct {
		text, query, want string
	}{
		{"<img src=x onerror=alert(1)> Acme", "acme", "&lt;img src=x onerror=alert(1)&gt; <mark>Acme</mark>"},
		{"Rossi & Figli", "rossi", "<mark>Rossi</mark> &amp; Figli"},
		{"Rossi & Figli", "i & f", "Ross<mark>i &amp; F</mark>igli"},
		{"<b>Bold</b>", "", "&lt;b&gt;Bold&lt;/b&gt;"},
		{"<b>Bold</b>", "zzz", "&lt;b&gt;Bold&lt;/b&gt;"},
	}

	for _, tc := range cases {
		if got := Highlight(tc.text, tc.query); got != tc.want {
			t.Fatalf("Highlight(%q, %q) = %q, want %q", tc.text, tc.query, got, tc.want)
		}
	}
}

func TestHighlightUsesFullCaseFolding(t *testing.T) {
	cases := []struct {
		text, query, want string
	}{
		{"Großhandel Straße", "strasse", "Großhandel <mark>Straße</mark>"},
		{"Großhandel Straße", "GROSS", "<mark>Groß</mark>handel Straße"},
		// Half of a folded ß is not a whole character of the name.
		{"Straße", "stras", "Straße"},
	}

	for _, tc := range cases {
		if got := Highlight(tc.text, tc.query); got != tc.want {
			t.Fatalf("Highlight(%q, %q) = %q, want %q", tc.text, tc.query, got, tc.want)
		}
	}
}
