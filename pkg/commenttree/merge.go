package commenttree

import (
	"threadhub/pkg/models"
)

// Prepend puts n in front of the root list
func Prepend(f models.Forest, n models.Comment) models.Forest {
	out := make(models.Forest, 0, len(f)+1)
	out = append(out, n)
	return append(out, f...)
}

// AppendRoots appends a page of top-level comments in page order. Ids that
// are already in the forest, or repeated within the page, are skipped so the
// same page can be merged twice without duplicating rows.
func AppendRoots(f models.Forest, page []models.Comment) models.Forest {
	known := IDs(f)
	out := cloneList(f, len(page))
	for _, c := range page {
		if _, dup := known[c.ID]; dup {
			continue
		}
		known[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// AppendReplies bulk-appends a page of replies under parentID in page order.
// It is MergeReplies with no local replies.
func AppendReplies(f models.Forest, parentID string, page []models.Comment, allLoaded bool) models.Forest {
	return MergeReplies(f, parentID, page, allLoaded, nil)
}

// MergeReplies merges a page of replies under parentID so that the held
// replies follow the server's order.
//
// Replies already held that the page contains move to their page position and
// keep their local state. Held replies missing from the page stay in front of
// it, except those local reports true for: replies posted here that no page
// has returned yet, which the server lists after everything fetched so far.
// Ids held elsewhere in the forest are skipped.
//
// Fetched replies are already counted by the parent's RepliesCount, so the
// count is not incremented; it is only raised when the list would outgrow
// it. When allLoaded is set the count is pinned to the list length.
func MergeReplies(f models.Forest, parentID string, page []models.Comment, allLoaded bool, local func(id string) bool) models.Forest {
	known := IDs(f)
	return Update(f, parentID, func(p models.Comment) models.Comment {
		held := make(map[string]models.Comment, len(p.Replies))
		for _, r := range p.Replies {
			held[r.ID] = r
		}
		inPage := make(map[string]struct{}, len(page))
		for _, r := range page {
			inPage[r.ID] = struct{}{}
		}

		replies := make([]models.Comment, 0, len(p.Replies)+len(page))
		var tail []models.Comment
		for _, r := range p.Replies {
			if _, ok := inPage[r.ID]; ok {
				continue
			}
			if local != nil && local(r.ID) {
				tail = append(tail, r)
				continue
			}
			replies = append(replies, r)
		}

		seen := make(map[string]struct{}, len(page))
		for _, r := range page {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			if own, ok := held[r.ID]; ok {
				replies = append(replies, own)
				continue
			}
			if _, elsewhere := known[r.ID]; elsewhere {
				continue
			}
			if r.ParentID == "" {
				r.ParentID = parentID
			}
			replies = append(replies, r)
		}
		replies = append(replies, tail...)

		p.Replies = replies
		if allLoaded || p.RepliesCount < len(replies) {
			p.RepliesCount = len(replies)
		}
		return p
	})
}

// AdjustRepliesCount moves the RepliesCount of id by delta. The result never
// drops below the number of replies currently held.
func AdjustRepliesCount(f models.Forest, id string, delta int) models.Forest {
	return Update(f, id, func(c models.Comment) models.Comment {
		c.RepliesCount += delta
		if c.RepliesCount < len(c.Replies) {
			c.RepliesCount = len(c.Replies)
		}
		return c
	})
}
