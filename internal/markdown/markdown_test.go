package markdown

import (
	"strings"
	"testing"
)

func TestToHTMLBasic(t *testing.T) {
	out, err := ToHTML("# Heading\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<h1") {
		t.Errorf("expected h1 in output, got: %s", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("expected bold in output, got: %s", out)
	}
}

func TestToHTMLGFMTable(t *testing.T) {
	src := "| A | B |\n|---|---|\n| 1 | 2 |"
	out, err := ToHTML(src)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected table in output, got: %s", out)
	}
}

func TestToHTMLRawHTMLPassthrough(t *testing.T) {
	out, err := ToHTML(`<div class="legacy">imported</div>`)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, `<div class="legacy">`) {
		t.Errorf("expected raw HTML preserved, got: %s", out)
	}
}

func TestToHTMLArabicContent(t *testing.T) {
	out, err := ToHTML("## القانون الجنائي\n\nنص **مهم**.")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(out, "القانون الجنائي") {
		t.Errorf("expected Arabic heading preserved, got: %s", out)
	}
}

// staticLookup resolves a fixed set of lowercase term names.
func staticLookup(terms map[string][2]string) TermLookup {
	return func(name string) (string, string, bool) {
		v, ok := terms[strings.ToLower(name)]
		if !ok {
			return "", "", false
		}
		return v[0], v[1], true
	}
}

func TestResolveTermsKnown(t *testing.T) {
	lookup := staticLookup(map[string][2]string{
		"mens rea": {"abc123", "The mental element of a crime."},
	})

	out := ResolveTerms("<p>Requires {Mens Rea} to convict.</p>", lookup)
	if !strings.Contains(out, `href="#glossary-abc123"`) {
		t.Errorf("expected glossary anchor, got: %s", out)
	}
	if !strings.Contains(out, `title="The mental element of a crime."`) {
		t.Errorf("expected definition title, got: %s", out)
	}
	if !strings.Contains(out, ">Mens Rea</a>") {
		t.Errorf("expected original casing in link text, got: %s", out)
	}
	if strings.Contains(out, "{") {
		t.Errorf("braces should be consumed for known terms, got: %s", out)
	}
}

func TestResolveTermsUnknownLeftIntact(t *testing.T) {
	lookup := staticLookup(nil)

	src := "<p>See {No Such Term} here.</p>"
	out := ResolveTerms(src, lookup)
	if out != src {
		t.Errorf("unknown term must stay untouched: got %s", out)
	}
}

func TestResolveTermsEscapesDefinition(t *testing.T) {
	lookup := staticLookup(map[string][2]string{
		"xss": {"id1", `<script>alert("x")</script>`},
	})

	out := ResolveTerms("{xss}", lookup)
	if strings.Contains(out, "<script>") {
		t.Errorf("definition not escaped: %s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected escaped definition, got: %s", out)
	}
}

func TestResolveTermsNilLookup(t *testing.T) {
	src := "<p>{anything}</p>"
	if out := ResolveTerms(src, nil); out != src {
		t.Errorf("nil lookup must be a no-op, got: %s", out)
	}
}

func TestRenderCombinesMarkdownAndTerms(t *testing.T) {
	lookup := staticLookup(map[string][2]string{
		"actus reus": {"id9", "The physical element of a crime."},
	})

	out, err := Render("Both {Actus Reus} and intent are required.", lookup)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<p>") {
		t.Errorf("expected markdown paragraph, got: %s", out)
	}
	if !strings.Contains(out, `href="#glossary-id9"`) {
		t.Errorf("expected resolved term link, got: %s", out)
	}
}
