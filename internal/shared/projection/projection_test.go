package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetadata_RewrittenKeepsCreation(t *testing.T) {
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	meta := Fresh(created)
	require.Equal(t, created, meta.CreatedAt)
	require.Equal(t, created, meta.UpdatedAt)

	later := created.Add(90 * time.Minute)
	next := meta.Rewritten(later)
	require.Equal(t, created, next.CreatedAt)
	require.Equal(t, later, next.UpdatedAt)
	require.Equal(t, created, meta.UpdatedAt, "receiver is a value copy")
}

func TestOf(t *testing.T) {
	meta := Fresh(time.Unix(0, 0))
	p := Of([]string{"omega-3"}, meta)
	require.Equal(t, []string{"omega-3"}, p.Entity)
	require.Equal(t, meta, p.Metadata)
}
