package split

import (
	"testing"

	"github.com/dgallion1/htmlsplit/internal/dom"
	"golang.org/x/net/html/atom"
)

func TestNodeStore_SliceAndReinsert(t *testing.T) {
	doc := parseDoc(t, "<html><body>\n<p>1</p> t1 <h1>A</h1><!--c--><p>2</p>\n<h1>B</h1> t2 <p>3</p></body></html>")
	before := renderDoc(t, doc)
	body := dom.FindElement(doc, atom.Body)

	a := dom.FindElement(body, atom.H1)
	b := dom.NextElementSibling(dom.NextElementSibling(a))
	if b == nil || dom.TextContent(b) != "B" {
		t.Fatalf("expected second heading, got %v", b)
	}

	s := nodeStore{log: testLogger()}
	s.slicePreceding(a)
	s.sliceFollowing(b)

	// Everything between A (inclusive) and B (exclusive) remains.
	var sb []string
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		sb = append(sb, c.Data)
	}
	want := []string{"h1", "c", "p", "\n"}
	if len(sb) != len(want) {
		t.Fatalf("expected remaining %q, got %q", want, sb)
	}
	for i := range want {
		if sb[i] != want[i] {
			t.Errorf("child %d: expected %q, got %q", i, want[i], sb[i])
		}
	}

	if len(s.preceding) != 3 || s.preceding[0].Data != "\n" || s.preceding[2].Data != " t1 " {
		t.Errorf("expected preceding nodes in document order, got %d nodes", len(s.preceding))
	}
	if len(s.following) != 3 || s.following[0] != b {
		t.Errorf("expected following nodes to start at the split point, got %d nodes", len(s.following))
	}

	s.reinsertPreceding(a)
	s.reinsertFollowing(body)

	if !s.empty() {
		t.Error("expected store to be empty after reinsertion")
	}
	if after := renderDoc(t, doc); after != before {
		t.Errorf("expected original tree\nbefore %q\nafter  %q", before, after)
	}
}

func TestNodeStore_NilAnchorsAreNoOps(t *testing.T) {
	doc := parseDoc(t, "<html><body><p>1</p><p>2</p></body></html>")
	before := renderDoc(t, doc)

	s := nodeStore{log: testLogger()}
	s.slicePreceding(nil)
	s.sliceFollowing(nil)
	if !s.empty() {
		t.Fatal("expected empty store")
	}
	s.reinsertPreceding(nil)
	s.reinsertFollowing(nil)

	if renderDoc(t, doc) != before {
		t.Error("expected tree untouched")
	}
}

func TestNodeStore_FollowingUsesRecordedParent(t *testing.T) {
	doc := parseDoc(t, "<html><body><p>1</p><h1>x</h1><p>2</p></body></html>")
	before := renderDoc(t, doc)
	h1 := dom.FindElement(doc, atom.H1)

	s := nodeStore{log: testLogger()}
	s.sliceFollowing(h1)
	s.reinsertFollowing(nil)

	if renderDoc(t, doc) != before {
		t.Error("expected nodes back under their original parent")
	}
}
