package embedcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/todozi/todozi/pkg/clock"
)

func TestCache_PutGet(t *testing.T) {
	c := New(10, time.Hour)
	key := Key{ContentType: "task", ID: "t1", TextHash: "abc"}

	c.Put(key, []float64{1, 2, 3}, "model-a")

	entry, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, entry.Vector)
	assert.Equal(t, "model-a", entry.ModelID)
}

func TestCache_Miss(t *testing.T) {
	c := New(10, time.Hour)
	_, ok := c.Get(Key{ContentType: "task", ID: "missing"})
	assert.False(t, ok)
}

func TestCache_EvictsLRUOnOverflow(t *testing.T) {
	c := New(2, time.Hour)
	k1 := Key{ID: "1"}
	k2 := Key{ID: "2"}
	k3 := Key{ID: "3"}

	c.Put(k1, []float64{1}, "m")
	c.Put(k2, []float64{2}, "m")
	// touch k1 so it's most-recently-used, making k2 the eviction target
	c.Get(k1)
	c.Put(k3, []float64{3}, "m")

	_, ok := c.Get(k2)
	assert.False(t, ok, "k2 should have been evicted as least-recently-used")

	_, ok = c.Get(k1)
	assert.True(t, ok)
	_, ok = c.Get(k3)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCache_TTLExpiry(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stepped := clock.NewStepped(start, time.Minute)
	c := New(10, 5*time.Minute, WithClock(stepped))

	key := Key{ID: "1"}
	c.Put(key, []float64{1}, "m")

	// advance the stepped clock past the TTL via repeated Now calls
	for range 10 {
		stepped.Now()
	}

	_, ok := c.Get(key)
	assert.False(t, ok, "entry should have expired")
}

func TestCache_EvictRemovesEntry(t *testing.T) {
	c := New(10, time.Hour)
	key := Key{ID: "1"}
	c.Put(key, []float64{1}, "m")
	c.Evict(key)

	_, ok := c.Get(key)
	assert.False(t, ok)
}
