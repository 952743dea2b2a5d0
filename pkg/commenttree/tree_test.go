package commenttree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadhub/pkg/models"
)

func node(id string, replies ...models.Comment) models.Comment {
	return models.Comment{
		ID:           id,
		Content:      "content " + id,
		RepliesCount: len(replies),
		Replies:      replies,
	}
}

// sample:
//
//	a
//	  a1
//	    a1x
//	  a2
//	b
//	  b1
func sample() models.Forest {
	return models.Forest{
		node("a", node("a1", node("a1x")), node("a2")),
		node("b", node("b1")),
	}
}

func TestFind(t *testing.T) {
	f := sample()

	for _, id := range []string{"a", "a1", "a1x", "a2", "b", "b1"} {
		got, ok := Find(f, id)
		require.True(t, ok, id)
		assert.Equal(t, id, got.ID)
	}

	_, ok := Find(f, "missing")
	assert.False(t, ok)

	_, ok = Find(nil, "a")
	assert.False(t, ok)
}

func TestFindParent(t *testing.T) {
	f := sample()

	p, ok := FindParent(f, "a1x")
	require.True(t, ok)
	assert.Equal(t, "a1", p.ID)

	p, ok = FindParent(f, "b1")
	require.True(t, ok)
	assert.Equal(t, "b", p.ID)

	_, ok = FindParent(f, "a")
	assert.False(t, ok, "roots have no parent")

	_, ok = FindParent(f, "missing")
	assert.False(t, ok)
}

func TestPath(t *testing.T) {
	f := sample()

	path, ok := Path(f, "a1x")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "a1", "a1x"}, path)

	path, ok = Path(f, "b")
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, path)

	_, ok = Path(f, "nope")
	assert.False(t, ok)
}

func TestUpdate_FindAgreement(t *testing.T) {
	f := sample()
	upper := func(c models.Comment) models.Comment {
		c.Content = strings.ToUpper(c.Content)
		c.LikesCount += 3
		return c
	}

	for _, id := range []string{"a", "a1x", "a2", "b1"} {
		before, ok := Find(f, id)
		require.True(t, ok)

		after, ok := Find(Update(f, id, upper), id)
		require.True(t, ok)
		assert.Equal(t, upper(before), after, id)
	}
}

func TestUpdate_DoesNotMutateInput(t *testing.T) {
	f := sample()

	out := Update(f, "a1x", func(c models.Comment) models.Comment {
		c.Content = "changed"
		return c
	})

	orig, _ := Find(f, "a1x")
	assert.Equal(t, "content a1x", orig.Content)
	changed, _ := Find(out, "a1x")
	assert.Equal(t, "changed", changed.Content)
}

func TestUpdate_SharesUntouchedSubtrees(t *testing.T) {
	f := sample()

	out := Update(f, "a1x", func(c models.Comment) models.Comment {
		c.Content = "changed"
		return c
	})

	// b's subtree is untouched and keeps its backing array.
	assert.Same(t, &f[1].Replies[0], &out[1].Replies[0])
	assert.NotSame(t, &f[0].Replies[0], &out[0].Replies[0])
}

func TestUpdate_MissingIDIsNoop(t *testing.T) {
	f := sample()
	out := Update(f, "missing", func(c models.Comment) models.Comment {
		t.Fatal("updater must not run")
		return c
	})
	assert.Equal(t, f, out)

	assert.Empty(t, Update(nil, "x", func(c models.Comment) models.Comment { return c }))
}

func TestAddReply(t *testing.T) {
	f := sample()
	reply := node("a1y")

	out := AddReply(f, "a1", reply)

	parent, ok := Find(out, "a1")
	require.True(t, ok)
	assert.Equal(t, 2, parent.RepliesCount)
	require.Len(t, parent.Replies, 2)
	assert.Equal(t, "a1y", parent.Replies[len(parent.Replies)-1].ID)
	assert.Equal(t, "a1", parent.Replies[1].ParentID)

	// the input keeps its single reply
	orig, _ := Find(f, "a1")
	assert.Len(t, orig.Replies, 1)
	assert.Equal(t, 1, orig.RepliesCount)
}

func TestAddReply_DoesNotClobberSharedBackingArray(t *testing.T) {
	replies := make([]models.Comment, 1, 4)
	replies[0] = node("r1")
	f := models.Forest{{ID: "p", RepliesCount: 1, Replies: replies}}

	first := AddReply(f, "p", node("x"))
	second := AddReply(f, "p", node("y"))

	assert.Equal(t, "x", first[0].Replies[1].ID)
	assert.Equal(t, "y", second[0].Replies[1].ID)
}

func TestAddReply_UnknownParent(t *testing.T) {
	f := sample()
	out := AddReply(f, "ghost", node("z"))
	assert.Equal(t, f, out)
	_, ok := Find(out, "z")
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	f := sample()

	out := Remove(f, "a1")
	_, ok := Find(out, "a1")
	assert.False(t, ok)
	_, ok = Find(out, "a1x")
	assert.False(t, ok, "subtree goes with its root")

	a, _ := Find(out, "a")
	assert.Equal(t, 2, a.RepliesCount, "remove leaves counts alone")
	assert.Len(t, a.Replies, 1)

	out = Remove(f, "b")
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
	assert.Len(t, f, 2)
}

func TestRemove_Idempotent(t *testing.T) {
	f := sample()
	for _, id := range []string{"a", "a1x", "b1", "missing"} {
		once := Remove(f, id)
		assert.Equal(t, once, Remove(once, id), id)
	}
	assert.Empty(t, Remove(nil, "a"))
}

func TestFlatten_PreOrder(t *testing.T) {
	rows := Flatten(sample())

	var ids []string
	var depths []int
	for _, r := range rows {
		ids = append(ids, r.Comment.ID)
		depths = append(depths, r.Depth)
	}
	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b", "b1"}, ids)
	assert.Equal(t, []int{0, 1, 2, 1, 0, 1}, depths)
}

func TestFlatten_NodeBeforeDescendantsAndNextSibling(t *testing.T) {
	f := sample()
	index := map[string]int{}
	for i, r := range Flatten(f) {
		index[r.Comment.ID] = i
	}

	var check func(list []models.Comment)
	check = func(list []models.Comment) {
		for i, c := range list {
			for id := range IDs(c.Replies) {
				assert.Less(t, index[c.ID], index[id])
				if i+1 < len(list) {
					assert.Less(t, index[id], index[list[i+1].ID])
				}
			}
			check(c.Replies)
		}
	}
	check(f)
}

func TestFlattenVisible(t *testing.T) {
	expanded := map[string]bool{"a": true}
	rows := FlattenVisible(sample(), func(id string) bool { return expanded[id] })

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.Comment.ID)
	}
	assert.Equal(t, []string{"a", "a1", "a2", "b"}, ids)
}

func TestIDsCountDepth(t *testing.T) {
	f := sample()
	ids := IDs(f)
	assert.Len(t, ids, 6)
	assert.Contains(t, ids, "a1x")

	assert.Equal(t, 6, Count(f))
	assert.Equal(t, 3, Depth(f))
	assert.Equal(t, 0, Depth(nil))
	assert.Empty(t, IDs(nil))
	assert.Empty(t, Flatten(nil))
}

func TestDuplicateIDs_FirstMatchWins(t *testing.T) {
	f := models.Forest{node("x", node("dup")), node("dup")}

	got, ok := Find(f, "dup")
	require.True(t, ok)
	p, ok := FindParent(f, "dup")
	require.True(t, ok)
	assert.Equal(t, "x", p.ID)
	assert.Equal(t, "content dup", got.Content)

	out := Update(f, "dup", func(c models.Comment) models.Comment {
		c.Content = "first"
		return c
	})
	assert.Equal(t, "first", out[0].Replies[0].Content)
	assert.Equal(t, "content dup", out[1].Content)

	out = Remove(f, "dup")
	assert.Empty(t, out[0].Replies)
	assert.Len(t, out, 2)
}
