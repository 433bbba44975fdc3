package ticket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketNumbersAreUnique(t *testing.T) {
	gen, err := NewGenerator(0)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tn := gen.TicketNumber()
		assert.True(t, strings.HasPrefix(tn, "T"))
		assert.False(t, seen[tn], "duplicate ticket number %s", tn)
		seen[tn] = true
	}
}

func TestSaleAndItemIDsAreDistinct(t *testing.T) {
	gen, err := NewGenerator(0)
	require.NoError(t, err)

	assert.NotEqual(t, gen.SaleID(), gen.SaleID())
	assert.NotEqual(t, gen.ItemID(), gen.ItemID())
	assert.NotEqual(t, gen.ProductID(), gen.ProductID())
}

func TestNewGeneratorRejectsBadNode(t *testing.T) {
	_, err := NewGenerator(-1)
	assert.Error(t, err)
}
