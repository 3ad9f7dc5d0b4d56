package epub

import (
	"testing"

	"go.uber.org/zap"
)

const navTestNCX = `<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/">
  <navMap>
    <navPoint id="a" playOrder="1">
      <navLabel><text>From NCX</text></navLabel>
      <content src="ch1.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`

const navTestNavDoc = `<html xmlns:epub="http://www.idpf.org/2007/ops">
<body>
  <nav epub:type="toc">
    <ol><li><a href="ch1.xhtml">From Nav Doc</a></li></ol>
  </nav>
</body>
</html>`

func navTestOPF(ncxPath, navPath string) *OPF {
	opf := &OPF{Manifest: make(map[string]ManifestItem), NCXPath: ncxPath}
	if navPath != "" {
		opf.Manifest["nav"] = ManifestItem{
			ID: "nav", Href: navPath,
			MediaType:  "application/xhtml+xml",
			Properties: []string{"nav"},
		}
		opf.ManifestOrder = append(opf.ManifestOrder, "nav")
	}
	return opf
}

func TestResolveNavigationPrefersNCX(t *testing.T) {
	a := buildArchive(t, []zipEntry{
		{"OEBPS/toc.ncx", navTestNCX},
		{"OEBPS/nav.xhtml", navTestNavDoc},
	})
	opf := navTestOPF("OEBPS/toc.ncx", "OEBPS/nav.xhtml")

	nav := ResolveNavigation(a, opf, zap.NewNop())
	if nav.Format != NavFormatNCX {
		t.Fatalf("Format = %v, want ncx", nav.Format)
	}
	if len(nav.Points) != 1 || nav.Points[0].Title != "From NCX" {
		t.Errorf("points = %+v", nav.Points)
	}
	if nav.Path != "OEBPS/toc.ncx" {
		t.Errorf("Path = %q", nav.Path)
	}
}

func TestResolveNavigationFallsBackToNavDoc(t *testing.T) {
	// The declared NCX does not exist in the archive; the nav doc is next.
	a := buildArchive(t, []zipEntry{
		{"OEBPS/nav.xhtml", navTestNavDoc},
	})
	opf := navTestOPF("OEBPS/toc.ncx", "OEBPS/nav.xhtml")

	nav := ResolveNavigation(a, opf, zap.NewNop())
	if nav.Format != NavFormatNavDoc {
		t.Fatalf("Format = %v, want nav", nav.Format)
	}
	if len(nav.Points) != 1 || nav.Points[0].Title != "From Nav Doc" {
		t.Errorf("points = %+v", nav.Points)
	}
}

func TestResolveNavigationEmptyNCXFallsThrough(t *testing.T) {
	// An NCX that parses but yields zero entries counts as absent.
	a := buildArchive(t, []zipEntry{
		{"OEBPS/toc.ncx", `<?xml version="1.0"?><ncx><navMap/></ncx>`},
		{"OEBPS/nav.xhtml", navTestNavDoc},
	})
	opf := navTestOPF("OEBPS/toc.ncx", "OEBPS/nav.xhtml")

	nav := ResolveNavigation(a, opf, zap.NewNop())
	if nav.Format != NavFormatNavDoc {
		t.Errorf("Format = %v, want nav doc fallback", nav.Format)
	}
}

func TestResolveNavigationNCXFromManifestMediaType(t *testing.T) {
	// No spine toc attribute; the NCX is found via its manifest media type.
	a := buildArchive(t, []zipEntry{
		{"OEBPS/toc.ncx", navTestNCX},
	})
	opf := &OPF{Manifest: make(map[string]ManifestItem)}
	opf.Manifest["ncx"] = ManifestItem{
		ID: "ncx", Href: "OEBPS/toc.ncx",
		MediaType: "application/x-dtbncx+xml",
	}
	opf.ManifestOrder = []string{"ncx"}

	nav := ResolveNavigation(a, opf, zap.NewNop())
	if nav.Format != NavFormatNCX {
		t.Errorf("Format = %v, want ncx via manifest media type", nav.Format)
	}
}

func TestResolveNavigationNone(t *testing.T) {
	a := buildArchive(t, nil)
	opf := navTestOPF("", "")

	nav := ResolveNavigation(a, opf, zap.NewNop())
	if nav.Format != NavFormatNone {
		t.Errorf("Format = %v, want none", nav.Format)
	}
	if len(nav.Points) != 0 {
		t.Errorf("points = %+v, want none", nav.Points)
	}
}

func TestNavFormatString(t *testing.T) {
	if NavFormatNCX.String() != "ncx" || NavFormatNavDoc.String() != "nav" || NavFormatNone.String() != "none" {
		t.Error("NavFormat string names wrong")
	}
}
