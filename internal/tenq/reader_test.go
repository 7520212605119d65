package tenq

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGroups(t *testing.T) {
	w := newTestWriter(t)
	first, err := w.SerializeTransaction(NewTransaction("1234567890", 1000, testKey, "Testing\r\nwith\r\nlines"))
	require.NoError(t, err)
	second, err := w.SerializeTransaction(NewTransaction("1111111111", 50, "other", "one line"))
	require.NoError(t, err)

	file := first + "\r\n" + " 10Q77unknown\r\n" + second + "\r\n"

	type unknown struct {
		lineNo    int
		transType string
	}
	var unknowns []unknown
	groups, err := ReadGroups(strings.NewReader(file), func(lineNo int, transType string) {
		unknowns = append(unknowns, unknown{lineNo, transType})
	})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []unknown{{6, "77"}}, unknowns)

	g := groups[0]
	assert.Equal(t, []int{1, 2, 3, 4, 5}, g.LineNos)
	assert.Equal(t, "1,2,3,4,5", g.LineNosString())
	key, ok := g.Get(ColReconciliation)
	require.True(t, ok)
	assert.Equal(t, "   "+testKey, key)
	text, _ := g.Get(ColRateText)
	assert.Equal(t, "lines", text, "the last text line wins")
	_, ok = g.Get(ColTransType)
	assert.False(t, ok)

	assert.Equal(t, []int{7, 8, 9}, groups[1].LineNos)
	debtor, _ := groups[1].Get(ColDebtorNo)
	assert.Equal(t, "1111111111", debtor)

	headers := Headers(groups)
	assert.Equal(t, ColSourceLineNos, headers[0])
	assert.Equal(t, ColSupplierIdent, headers[1])
	assert.Contains(t, headers, ColRateText)
	assert.NotContains(t, headers, ColTransType)
}

func TestReadGroups_LeadingNonPersonLine(t *testing.T) {
	groups, err := ReadGroups(strings.NewReader(wantLines[1]+"\n"+wantLines[0]+"\n"), nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []int{1}, groups[0].LineNos)
	assert.Equal(t, []int{2}, groups[1].LineNos)
}

func TestReadGroups_Empty(t *testing.T) {
	groups, err := ReadGroups(strings.NewReader(""), nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Equal(t, []string{ColSourceLineNos}, Headers(groups))
}
