package siiau

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByNRCPreservesOrder(t *testing.T) {
	records := []SessionRecord{
		{NRC: "100", SesionNum: "01"},
		{NRC: "200", SesionNum: "01"},
		{NRC: "100", SesionNum: "02"},
		{NRC: "300", SesionNum: "01"},
		{NRC: "200", SesionNum: "02"},
	}

	groups := GroupByNRC(records)
	require.Len(t, groups, 3)

	assert.Equal(t, "100", groups[0].NRC)
	assert.Equal(t, "200", groups[1].NRC)
	assert.Equal(t, "300", groups[2].NRC)

	require.Len(t, groups[0].Records, 2)
	assert.Equal(t, "01", groups[0].Records[0].SesionNum)
	assert.Equal(t, "02", groups[0].Records[1].SesionNum)

	require.Len(t, groups[1].Records, 2)
	require.Len(t, groups[2].Records, 1)
}

func TestGroupByNRCExactMatch(t *testing.T) {
	// "0123" and "123" are different NRCs; grouping never normalises.
	groups := GroupByNRC([]SessionRecord{{NRC: "0123"}, {NRC: "123"}})
	assert.Len(t, groups, 2)
}

func TestGroupByNRCEmpty(t *testing.T) {
	assert.Empty(t, GroupByNRC(nil))
}
