package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_IsKnown(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.IsKnown(), c)
	}
	assert.False(t, Category("Sports").IsKnown())
	assert.False(t, Category("markets").IsKnown(), "matching is case sensitive")
}

func TestRankedSelection_IDs(t *testing.T) {
	sel := RankedSelection{{ID: "2"}, {ID: "1"}}
	assert.Equal(t, []string{"2", "1"}, sel.IDs())
	assert.Empty(t, RankedSelection{}.IDs())
}
