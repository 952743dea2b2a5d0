// Package commenttree implements the pure operations over a post's nested
// comment forest. No function mutates its input: changes copy the path from
// the root to the touched node and share every other subtree.
package commenttree

import (
	"threadhub/pkg/models"
)

// Row is one line of a flattened forest
type Row struct {
	Comment models.Comment
	Depth   int
}

// Find returns the first node with id in depth-first pre-order
func Find(f models.Forest, id string) (models.Comment, bool) {
	for _, c := range f {
		if c.ID == id {
			return c, true
		}
		if found, ok := Find(c.Replies, id); ok {
			return found, true
		}
	}
	return models.Comment{}, false
}

// FindParent returns the node whose direct replies hold id.
// Root-level and unknown ids report false.
func FindParent(f models.Forest, id string) (models.Comment, bool) {
	for _, c := range f {
		for _, r := range c.Replies {
			if r.ID == id {
				return c, true
			}
		}
		if parent, ok := FindParent(c.Replies, id); ok {
			return parent, true
		}
	}
	return models.Comment{}, false
}

// Path returns the ids from a root down to and including id
func Path(f models.Forest, id string) ([]string, bool) {
	for _, c := range f {
		if c.ID == id {
			return []string{c.ID}, true
		}
		if sub, ok := Path(c.Replies, id); ok {
			return append([]string{c.ID}, sub...), true
		}
	}
	return nil, false
}

// Update replaces the node with id by fn(node). Ancestors on the path are
// copied; when id is absent the forest is returned as is.
func Update(f models.Forest, id string, fn func(models.Comment) models.Comment) models.Forest {
	out, _ := update(f, id, fn)
	return out
}

func update(list []models.Comment, id string, fn func(models.Comment) models.Comment) ([]models.Comment, bool) {
	for i, c := range list {
		if c.ID == id {
			out := cloneList(list, 0)
			out[i] = fn(c)
			return out, true
		}
		if replies, ok := update(c.Replies, id, fn); ok {
			out := cloneList(list, 0)
			c.Replies = replies
			out[i] = c
			return out, true
		}
	}
	return list, false
}

// AddReply appends n to the replies of parentID and bumps its RepliesCount
// by one. Unknown parents leave the forest unchanged.
func AddReply(f models.Forest, parentID string, n models.Comment) models.Forest {
	if n.ParentID == "" {
		n.ParentID = parentID
	}
	return Update(f, parentID, func(p models.Comment) models.Comment {
		p.Replies = append(cloneList(p.Replies, 1), n)
		p.RepliesCount++
		return p
	})
}

// Remove drops the node with id and its whole subtree. Parent counts are
// left alone; see AdjustRepliesCount.
func Remove(f models.Forest, id string) models.Forest {
	out, _ := remove(f, id)
	return out
}

func remove(list []models.Comment, id string) ([]models.Comment, bool) {
	for i, c := range list {
		if c.ID == id {
			out := make([]models.Comment, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
		if replies, ok := remove(c.Replies, id); ok {
			out := cloneList(list, 0)
			c.Replies = replies
			out[i] = c
			return out, true
		}
	}
	return list, false
}

// Flatten lists every node in pre-order with its depth (roots are depth 0)
func Flatten(f models.Forest) []Row {
	rows := make([]Row, 0, len(f))
	flatten(f, 0, nil, &rows)
	return rows
}

// FlattenVisible is Flatten restricted to disclosed subtrees: the replies of
// a node are listed only when expanded reports true for it.
func FlattenVisible(f models.Forest, expanded func(id string) bool) []Row {
	rows := make([]Row, 0, len(f))
	flatten(f, 0, expanded, &rows)
	return rows
}

func flatten(list []models.Comment, depth int, expanded func(string) bool, rows *[]Row) {
	for _, c := range list {
		*rows = append(*rows, Row{Comment: c, Depth: depth})
		if expanded != nil && !expanded(c.ID) {
			continue
		}
		flatten(c.Replies, depth+1, expanded, rows)
	}
}

// IDs collects every id present in the forest
func IDs(f models.Forest) map[string]struct{} {
	ids := make(map[string]struct{})
	collectIDs(f, ids)
	return ids
}

func collectIDs(list []models.Comment, ids map[string]struct{}) {
	for _, c := range list {
		ids[c.ID] = struct{}{}
		collectIDs(c.Replies, ids)
	}
}

// Count returns the number of nodes at any depth
func Count(f models.Forest) int {
	n := 0
	for _, c := range f {
		n += 1 + Count(c.Replies)
	}
	return n
}

// Depth returns the number of levels in the forest, 0 when empty
func Depth(f models.Forest) int {
	deepest := 0
	for _, c := range f {
		if d := 1 + Depth(c.Replies); d > deepest {
			deepest = d
		}
	}
	return deepest
}

func cloneList(list []models.Comment, extra int) []models.Comment {
	out := make([]models.Comment, len(list), len(list)+extra)
	copy(out, list)
	return out
}
