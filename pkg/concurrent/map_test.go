package concurrent

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_StoreLoadDelete(t *testing.T) {
	m := NewMap[string, int]()

	m.Store("a", 1)
	val, ok := m.Load("a")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	m.Delete("a")
	_, ok = m.Load("a")
	assert.False(t, ok)
}

func TestMap_LoadOrStore(t *testing.T) {
	m := NewMap[string, int]()

	actual, loaded := m.LoadOrStore("a", 1)
	assert.False(t, loaded)
	assert.Equal(t, 1, actual)

	actual, loaded = m.LoadOrStore("a", 2)
	assert.True(t, loaded)
	assert.Equal(t, 1, actual)
}

func TestMap_Keys(t *testing.T) {
	m := NewMap[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)

	keys := m.Keys()
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestMap_ConcurrentAccess(t *testing.T) {
	m := NewMap[int, int]()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Store(i, i*2)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, m.Length())
}
