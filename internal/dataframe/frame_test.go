package dataframe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `region,amount,contact
north, 10 ,alice@example.com
south,20,bob@example.com
north,30.5,carol@example.com
`

func TestFromCSV(t *testing.T) {
	f, err := FromCSV("sales", strings.NewReader(salesCSV))
	require.NoError(t, err)

	assert.Equal(t, "sales", f.Name())
	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, 3, f.NumColumns())
	assert.Equal(t, []string{"region", "amount", "contact"}, f.Columns())

	amounts, err := f.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, []any{10.0, 20.0, 30.5}, amounts)

	regions, err := f.Column("region")
	require.NoError(t, err)
	assert.Equal(t, []any{"north", "south", "north"}, regions)
}

func TestColumnUnknown(t *testing.T) {
	f, err := FromCSV("sales", strings.NewReader(salesCSV))
	require.NoError(t, err)

	_, err = f.Column("missing")
	assert.Error(t, err)
}

func TestHead(t *testing.T) {
	f, err := FromCSV("sales", strings.NewReader(salesCSV))
	require.NoError(t, err)

	head := f.Head(2)
	assert.Equal(t, 2, head.NumRows())
	assert.Equal(t, 3, head.NumColumns())

	// Larger than the frame clamps, negative clamps to zero.
	assert.Equal(t, 3, f.Head(10).NumRows())
	assert.Equal(t, 0, f.Head(-1).NumRows())
}

func TestRecords(t *testing.T) {
	f, err := FromCSV("sales", strings.NewReader(salesCSV))
	require.NoError(t, err)

	records := f.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "south", records[1]["region"])
	assert.Equal(t, 20.0, records[1]["amount"])
}

func TestString(t *testing.T) {
	f, err := FromCSV("sales", strings.NewReader(salesCSV))
	require.NoError(t, err)

	rendered := f.String()
	assert.Contains(t, rendered, "region")
	assert.Contains(t, rendered, "north")
	assert.Contains(t, rendered, "30.5")
}

func TestNewRejectsRaggedRows(t *testing.T) {
	_, err := New("bad", []string{"a", "b"}, [][]any{{1.0}})
	assert.Error(t, err)
}

func TestNewRejectsDuplicateColumns(t *testing.T) {
	_, err := New("bad", []string{"a", "a"}, nil)
	assert.Error(t, err)
}

func TestAnonymize(t *testing.T) {
	f, err := FromCSV("sales", strings.NewReader(salesCSV))
	require.NoError(t, err)

	anon := Anonymize(f)

	contacts, err := anon.Column("contact")
	require.NoError(t, err)
	for i, c := range contacts {
		s, ok := c.(string)
		require.True(t, ok)
		assert.NotEqual(t, f.Records()[i]["contact"], s)
		assert.Contains(t, s, "@example.com")
	}

	// Non-sensitive cells pass through untouched.
	regions, err := anon.Column("region")
	require.NoError(t, err)
	assert.Equal(t, []any{"north", "south", "north"}, regions)

	amounts, err := anon.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, []any{10.0, 20.0, 30.5}, amounts)
}
