package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/todozi/todozi/pkg/content"
)

func TestRegistry_PutGetDelete(t *testing.T) {
	r := New()
	r.Put(Entry{ID: "t1", ContentType: content.TypeTask, Text: "fix bug", Project: "auth"})

	e, ok := r.Get("t1")
	assert.True(t, ok)
	assert.Equal(t, "fix bug", e.Text)

	r.Delete("t1")
	_, ok = r.Get("t1")
	assert.False(t, ok)
}

func TestRegistry_FilterByContentType(t *testing.T) {
	r := New()
	r.Put(Entry{ID: "t1", ContentType: content.TypeTask, Project: "a"})
	r.Put(Entry{ID: "m1", ContentType: content.TypeMemory, Project: "a"})

	tasks := r.All(Filter{ContentType: content.TypeTask})
	assert.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
}

func TestRegistry_FilterByProjectGlob(t *testing.T) {
	r := New()
	r.Put(Entry{ID: "1", Project: "team-auth"})
	r.Put(Entry{ID: "2", Project: "team-billing"})
	r.Put(Entry{ID: "3", Project: "personal"})

	matches := r.All(Filter{ProjectGlob: "team-*"})
	assert.Len(t, matches, 2)
}

func TestRegistry_Range_StopsEarly(t *testing.T) {
	r := New()
	r.Put(Entry{ID: "1"})
	r.Put(Entry{ID: "2"})
	r.Put(Entry{ID: "3"})

	seen := 0
	r.Range(Filter{}, func(Entry) bool {
		seen++
		return seen < 1
	})
	assert.Equal(t, 1, seen)
}

func TestRegistry_Len(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Len())
	r.Put(Entry{ID: "1"})
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_GetOrPut_DoesNotOverwriteExisting(t *testing.T) {
	r := New()
	first, loaded := r.GetOrPut(Entry{ID: "1", Text: "original"})
	assert.False(t, loaded)
	assert.Equal(t, "original", first.Text)

	second, loaded := r.GetOrPut(Entry{ID: "1", Text: "replacement"})
	assert.True(t, loaded)
	assert.Equal(t, "original", second.Text)
}

func TestRegistry_IDs_ReturnsEveryRegisteredID(t *testing.T) {
	r := New()
	r.Put(Entry{ID: "1"})
	r.Put(Entry{ID: "2"})
	assert.ElementsMatch(t, []string{"1", "2"}, r.IDs())
}
