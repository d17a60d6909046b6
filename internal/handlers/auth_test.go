package handlers

import "testing"

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"/movies/597":         "/movies/597",
		"":                    "/",
		"https://evil.test/":  "/",
		"//evil.test":         "/",
		"/\\evil.test":        "/",
		"/contests?x=1":       "/contests?x=1",
	}
	for in, want := range cases {
		if got := safeRedirect(in); got != want {
			t.Errorf("safeRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}
