package sequences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPlacementBudget(t *testing.T) {
	// five one-minute attempts plus backoffs of 2s, 4s, 8s and the 10s cap
	require.Equal(t, 5*time.Minute+24*time.Second, PlacementBudget())
}
