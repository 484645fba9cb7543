package split

import (
	"log/slog"

	"golang.org/x/net/html"
)

// nodeStore holds the nodes detached for one part. Both slices are kept in
// document order. It must be empty at the start and end of every part.
//
// Every sibling is detached, not only elements: text and comments between
// elements travel with their neighbours so that reinsertion restores the
// exact original child list.
type nodeStore struct {
	preceding []*html.Node
	following []*html.Node

	// parent of the following nodes, used when the caller has no parent.
	followingParent *html.Node

	log *slog.Logger
}

func (s *nodeStore) empty() bool {
	return len(s.preceding) == 0 && len(s.following) == 0
}

// slicePreceding detaches every sibling before anchor. anchor stays in the
// tree. A nil anchor (first part) leaves the store empty.
func (s *nodeStore) slicePreceding(anchor *html.Node) {
	s.preceding = s.preceding[:0]
	if anchor == nil {
		return
	}
	for n := anchor.PrevSibling; n != nil; {
		prev := n.PrevSibling
		anchor.Parent.RemoveChild(n)
		s.preceding = append(s.preceding, n)
		n = prev
	}
	// Collected walking backward; flip into document order.
	for i, j := 0, len(s.preceding)-1; i < j; i, j = i+1, j-1 {
		s.preceding[i], s.preceding[j] = s.preceding[j], s.preceding[i]
	}
	s.log.Debug("detached preceding nodes", "count", len(s.preceding))
}

// sliceFollowing detaches anchor and every sibling after it. A nil anchor
// (last part) leaves the store empty.
func (s *nodeStore) sliceFollowing(anchor *html.Node) {
	s.following = s.following[:0]
	s.followingParent = nil
	if anchor == nil {
		return
	}
	parent := anchor.Parent
	for n := anchor; n != nil; {
		next := n.NextSibling
		if n.Type == html.ElementNode {
			s.log.Debug("removing node", "tag", n.Data)
		}
		parent.RemoveChild(n)
		s.following = append(s.following, n)
		n = next
	}
	s.followingParent = parent
	s.log.Debug("detached following nodes", "count", len(s.following))
}

// reinsertPreceding puts the preceding nodes back immediately before anchor,
// walking the store backward so the original order is restored.
func (s *nodeStore) reinsertPreceding(anchor *html.Node) {
	if anchor == nil {
		s.preceding = s.preceding[:0]
		return
	}
	ref := anchor
	for i := len(s.preceding) - 1; i >= 0; i-- {
		n := s.preceding[i]
		anchor.Parent.InsertBefore(n, ref)
		ref = n
	}
	s.preceding = s.preceding[:0]
}

// reinsertFollowing appends the following nodes to parent in stored order.
// When parent is nil the parent recorded at slice time is used.
func (s *nodeStore) reinsertFollowing(parent *html.Node) {
	if parent == nil {
		parent = s.followingParent
	}
	if parent != nil {
		for _, n := range s.following {
			parent.AppendChild(n)
		}
	}
	s.following = s.following[:0]
	s.followingParent = nil
}

// release drops the backing arrays once a run is over.
func (s *nodeStore) release() {
	s.preceding = nil
	s.following = nil
	s.followingParent = nil
}
