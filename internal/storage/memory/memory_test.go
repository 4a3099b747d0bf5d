package memory

import (
	"context"
	"testing"

	"github.com/aanand-mishra/student-management/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmpty(t *testing.T) {
	store := New()

	roster, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, roster)
	assert.Empty(t, roster)
}

func TestSaveAndLoadCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	roster := map[string]types.Student{
		"S1": {SID: "S1", Name: "Alice", Age: 21, Gender: "Female", Major: "CS"},
	}
	require.NoError(t, store.Save(ctx, roster))

	// Mutating the caller's map after Save must not affect the store.
	roster["S2"] = types.Student{SID: "S2", Name: "Bob", Age: 19, Gender: "Male", Major: "Finance"}

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	// Mutating the loaded map must not affect a later Load either.
	delete(loaded, "S1")
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 1)
}
