package manifest

import "testing"

func TestParseIMDBID(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://www.imdb.com/title/tt0306414/":  "tt0306414",
		"https://www.imdb.com/title/TT0306414":   "tt0306414",
		"tt12345":                                "tt12345",
		"https://www.imdb.com/title/tt1234/":     "",
		"":                                       "",
		"no id here":                             "",
	}
	for input, want := range cases {
		if got := ParseIMDBID(input); got != want {
			t.Errorf("ParseIMDBID(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeBarcode(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"796019802345": "796019802345",
		"7.9602E+11":   "796020000000",
		" 043396 ":     "043396",
		"0-43396":      "043396",
		"":             "",
		"n/a":          "n/a",
	}
	for input, want := range cases {
		if got := NormalizeBarcode(input); got != want {
			t.Errorf("NormalizeBarcode(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseOrdinal(t *testing.T) {
	t.Parallel()

	if v, ok := parseOrdinal("Disc 3"); !ok || v != 3 {
		t.Fatalf("got %d, %v", v, ok)
	}
	if v, ok := parseOrdinal("D01"); !ok || v != 1 {
		t.Fatalf("got %d, %v", v, ok)
	}
	if _, ok := parseOrdinal("bonus"); ok {
		t.Fatal("expected no ordinal")
	}
}

func TestParseIntHandlesSpreadsheetDecimals(t *testing.T) {
	t.Parallel()

	if v, ok := parseInt("22.0"); !ok || v != 22 {
		t.Fatalf("got %d, %v", v, ok)
	}
	if _, ok := parseInt(""); ok {
		t.Fatal("expected absent")
	}
}
