package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	s, err := RenderString(n)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return s
}

func TestElementSiblings_SkipText(t *testing.T) {
	doc := parse(t, "<body><p>a</p> text <!-- c --> <div>b</div></body>")
	body := FindElement(doc, atom.Body)
	p := FirstElementChild(body)
	if p == nil || p.DataAtom != atom.P {
		t.Fatalf("expected first element child <p>, got %v", p)
	}

	next := NextElementSibling(p)
	if next == nil || next.DataAtom != atom.Div {
		t.Fatalf("expected next element <div>, got %v", next)
	}
	if prev := PrevElementSibling(next); prev != p {
		t.Errorf("expected previous element to be <p>, got %v", prev)
	}
	if NextElementSibling(next) != nil {
		t.Error("expected no element after <div>")
	}
}

func TestClone_IsDeepAndDetached(t *testing.T) {
	doc := parse(t, `<body><h2 id="x">Hello <em>world</em></h2></body>`)
	h2 := FindElement(doc, atom.H2)

	c := Clone(h2)
	if c.Parent != nil || c.NextSibling != nil || c.PrevSibling != nil {
		t.Fatal("expected clone to be detached")
	}
	if render(t, c) != render(t, h2) {
		t.Errorf("expected identical markup, got %q vs %q", render(t, c), render(t, h2))
	}

	// Mutating the clone must not touch the original.
	c.Attr[0].Val = "changed"
	c.FirstChild.Data = "Bye "
	if Attr(h2, "id") != "x" {
		t.Errorf("expected original id to stay %q, got %q", "x", Attr(h2, "id"))
	}
	if TextContent(h2) != "Hello world" {
		t.Errorf("expected original text to stay, got %q", TextContent(h2))
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		tag  string
		want int
	}{
		{"h1", 1},
		{"h3", 3},
		{"h6", 6},
		{"p", 0},
		{"header", 0},
	}
	for _, tt := range tests {
		if got := HeadingLevel(Element(tt.tag)); got != tt.want {
			t.Errorf("%s: expected level %d, got %d", tt.tag, tt.want, got)
		}
	}
	if HeadingLevel(Text("h1")) != 0 {
		t.Error("expected text node to have level 0")
	}
}

func TestPathOfFollow_LocatesPositionInClone(t *testing.T) {
	doc := parse(t, "<body><div><p>a</p><section><p>b</p></section></div></body>")
	section := FindElement(doc, atom.Section)

	clone := Clone(doc)
	got := Follow(clone, PathOf(section))
	if got == nil {
		t.Fatal("expected a node in the clone")
	}
	if got == section {
		t.Fatal("expected the clone's node, not the original")
	}
	if got.DataAtom != atom.Section || TextContent(got) != "b" {
		t.Errorf("expected cloned <section> with text b, got <%s> %q", got.Data, TextContent(got))
	}

	if Follow(clone, []int{0, 9, 9}) != nil {
		t.Error("expected nil for a path outside the tree")
	}
}

func TestDetachAndRemoveChildren(t *testing.T) {
	doc := parse(t, "<body><p>a</p><p>b</p><p>c</p></body>")
	body := FindElement(doc, atom.Body)

	second := NextElementSibling(FirstElementChild(body))
	Detach(second)
	if second.Parent != nil {
		t.Fatal("expected detached node to have no parent")
	}
	if TextContent(body) != "ac" {
		t.Errorf("expected body text %q, got %q", "ac", TextContent(body))
	}
	Detach(second) // no-op on an already detached node

	RemoveChildren(body)
	if body.FirstChild != nil {
		t.Error("expected body to be empty")
	}
}

func TestElementAttrs(t *testing.T) {
	a := Element("a", "href", "0001.html", "rel", "next")
	if a.DataAtom != atom.A {
		t.Errorf("expected atom A, got %v", a.DataAtom)
	}
	if Attr(a, "href") != "0001.html" || Attr(a, "rel") != "next" {
		t.Errorf("unexpected attributes %v", a.Attr)
	}
	if Attr(a, "missing") != "" {
		t.Error("expected empty value for a missing attribute")
	}
}
