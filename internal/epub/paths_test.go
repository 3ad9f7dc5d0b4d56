package epub

import "testing"

func TestResolveReference(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		baseDir string
		docDir  string
		want    string
	}{
		{"empty", "", "OEBPS", "", ""},
		{"relative against base dir", "text/ch1.xhtml", "OEBPS", "", "OEBPS/text/ch1.xhtml"},
		{"relative against doc dir", "ch1.xhtml", "", "OEBPS/text", "OEBPS/text/ch1.xhtml"},
		{"base dir wins over doc dir", "text/ch1.xhtml", "OEBPS", "ignored", "OEBPS/text/ch1.xhtml"},
		{"no base at all", "ch1.xhtml", "", "", "ch1.xhtml"},
		{"http reference keeps url path", "http://example.com/imgs/pic.png", "OEBPS", "", "imgs/pic.png"},
		{"https reference keeps url path", "https://example.com/imgs/pic.png", "OEBPS", "", "imgs/pic.png"},
		{"data uri passes through", "data:image/png;base64,AAAA", "OEBPS", "", "data:image/png;base64,AAAA"},
		{"fragment passes through", "#section-2", "OEBPS", "", "#section-2"},
		{"leading slash stripped", "/text/ch1.xhtml", "OEBPS", "", "OEBPS/text/ch1.xhtml"},
		{"percent-decoded", "my%20file.xhtml", "OEBPS", "", "OEBPS/my file.xhtml"},
		{"dot segments collapsed", "../images/pic.png", "", "OEBPS/text", "OEBPS/images/pic.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveReference(tt.ref, tt.baseDir, tt.docDir)
			if got != tt.want {
				t.Errorf("ResolveReference(%q, %q, %q) = %q, want %q",
					tt.ref, tt.baseDir, tt.docDir, got, tt.want)
			}
		})
	}
}

func TestResolveReferenceIdempotent(t *testing.T) {
	// Resolving an already-resolved path must not stack the base again.
	once := ResolveReference("text/ch1.xhtml", "OEBPS", "")
	twice := ResolveReference(once, "OEBPS", "")
	if once != twice {
		t.Errorf("resolution not idempotent: first %q, second %q", once, twice)
	}
}

func TestSplitFragment(t *testing.T) {
	tests := []struct {
		in           string
		wantPath     string
		wantFragment string
	}{
		{"ch1.xhtml#top", "ch1.xhtml", "top"},
		{"ch1.xhtml", "ch1.xhtml", ""},
		{"#top", "", "top"},
		{"", "", ""},
	}
	for _, tt := range tests {
		p, frag := SplitFragment(tt.in)
		if p != tt.wantPath || frag != tt.wantFragment {
			t.Errorf("SplitFragment(%q) = (%q, %q), want (%q, %q)",
				tt.in, p, frag, tt.wantPath, tt.wantFragment)
		}
	}
}
