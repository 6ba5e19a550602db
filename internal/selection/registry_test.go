package selection

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry[*Coordinator](0)

	c := NewCoordinator()
	id := r.Create(c)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, c, got)

	other := r.Create(NewCoordinator())
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, r.Len())

	assert.True(t, r.Delete(id))
	assert.False(t, r.Delete(id))
	_, ok = r.Get(id)
	assert.False(t, ok)

	assert.Equal(t, 0, r.Expire(), "zero ttl never expires")
}

func TestRegistryExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry[*Coordinator](time.Minute)
	r.now = func() time.Time { return now }

	idle := r.Create(NewCoordinator())
	active := r.Create(NewCoordinator())

	now = now.Add(50 * time.Second)
	_, ok := r.Get(active)
	require.True(t, ok)

	now = now.Add(20 * time.Second)
	assert.Equal(t, 1, r.Expire())

	_, ok = r.Get(idle)
	assert.False(t, ok)
	_, ok = r.Get(active)
	assert.True(t, ok)
}

func TestSessionsAreIndependent(t *testing.T) {
	r := NewRegistry[*Coordinator](0)
	a, _ := r.Get(r.Create(NewCoordinator()))
	b, _ := r.Get(r.Create(NewCoordinator()))

	a.Toggle(Of("Johor"))
	assert.Equal(t, "Johor", a.Current().State())
	assert.True(t, b.Current().IsNone())
}

func TestRegistryOnEvict(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry[*Coordinator](time.Minute)
	r.now = func() time.Time { return now }

	var evicted []*Coordinator
	r.OnEvict(func(c *Coordinator) { evicted = append(evicted, c) })

	deleted := NewCoordinator()
	idle := NewCoordinator()
	deletedID := r.Create(deleted)
	r.Create(idle)

	require.True(t, r.Delete(deletedID))
	assert.False(t, r.Delete(deletedID))
	require.Len(t, evicted, 1)
	assert.Same(t, deleted, evicted[0])

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, r.Expire())
	require.Len(t, evicted, 2)
	assert.Same(t, idle, evicted[1])
}
