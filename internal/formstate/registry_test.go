package formstate

import (
	"testing"
	"time"

	"alumni-form/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetOrCreate(t *testing.T) {
	reg := NewRegistry(Options{})

	a := reg.GetOrCreate("visitor-a", nil)
	b := reg.GetOrCreate("visitor-b", nil)
	assert.NotSame(t, a, b)
	assert.Same(t, a, reg.GetOrCreate("visitor-a", nil))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryRestoresDraftOnlyOnCreate(t *testing.T) {
	reg := NewRegistry(Options{})
	calls := 0
	restore := func() *models.FormRecord {
		calls++
		return &models.FormRecord{FullName: "Ann Lee"}
	}

	ctrl := reg.GetOrCreate("visitor", restore)
	assert.Equal(t, "Ann Lee", ctrl.Record().FullName)

	require.NoError(t, ctrl.UpdateField(models.FullName, "Ann L."))
	ctrl = reg.GetOrCreate("visitor", restore)
	assert.Equal(t, "Ann L.", ctrl.Record().FullName)
	assert.Equal(t, 1, calls)
}

func TestRegistrySweep(t *testing.T) {
	reg := NewRegistry(Options{})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	reg.GetOrCreate("old", nil)
	now = now.Add(20 * time.Minute)
	reg.GetOrCreate("fresh", nil)
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, reg.Sweep(30*time.Minute))
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 0, reg.Sweep(30*time.Minute))
}
