package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/courexa/edi-gateway/internal/repository"
)

func TestParcelCache(t *testing.T) {
	t.Run("set then get returns a copy", func(t *testing.T) {
		c := NewParcelCache()
		p := &repository.Parcel{ID: "p-1", EDIReference: "ORD-1", Status: "REGISTERED"}

		c.Set(p)

		got, found := c.Get("ORD-1")
		require.True(t, found)
		assert.Equal(t, "p-1", got.ID)

		// Mutating the returned row must not leak back into the cache.
		got.Status = "DELIVERED"
		fresh, found := c.Get("ORD-1")
		require.True(t, found)
		assert.Equal(t, "REGISTERED", fresh.Status)
	})

	t.Run("miss", func(t *testing.T) {
		c := NewParcelCache()
		got, found := c.Get("ORD-MISSING")
		assert.False(t, found)
		assert.Nil(t, got)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		c := NewParcelCache()
		c.Set(&repository.Parcel{ID: "p-1", EDIReference: "ORD-1"})

		c.Invalidate("ORD-1")

		_, found := c.Get("ORD-1")
		assert.False(t, found)
	})

	t.Run("concurrent access", func(t *testing.T) {
		c := NewParcelCache()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Set(&repository.Parcel{ID: "p-1", EDIReference: "ORD-1"})
				c.Get("ORD-1")
				c.Invalidate("ORD-1")
			}()
		}
		wg.Wait()
	})
}
