package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, name string, types ...string) *RecordSchema {
	t.Helper()

	fields := make([]FieldInput, len(types))
	for i, typ := range types {
		fields[i] = FieldInput{Name: "f" + string(rune('a'+i)), Type: Type(typ)}
	}

	s, err := New(name, fields)
	require.NoError(t, err)

	return s
}

func names(records []*RecordSchema) []string {
	res := make([]string, len(records))
	for i, r := range records {
		res[i] = r.Name()
	}

	return res
}

func TestNewSet_OrdersByValueDependencies(t *testing.T) {
	person := record(t, "Person", "string", "Address", "[]Pet")
	address := record(t, "Address", "string", "Geo")
	geo := record(t, "Geo", "float64", "float64")
	pet := record(t, "Pet", "string", "*Person")

	set, err := NewSet(person, address, geo, pet)
	require.NoError(t, err)

	assert.Equal(t, []string{"Person", "Address", "Geo", "Pet"}, names(set.Records()))
	assert.Equal(t, []string{"Geo", "Address", "Person", "Pet"}, names(set.Ordered()))
	assert.Equal(t, 4, set.Len())

	got, ok := set.Lookup("Geo")
	require.True(t, ok)
	assert.Same(t, geo, got)

	_, ok = set.Lookup("Missing")
	assert.False(t, ok)
}

func TestNewSet_DuplicateRecord(t *testing.T) {
	_, err := NewSet(record(t, "Person", "string"), record(t, "Person", "int"))
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestNewSet_RecursiveRecord(t *testing.T) {
	tests := []struct {
		name    string
		records func(t *testing.T) []*RecordSchema
	}{
		{
			name: "self by value",
			records: func(t *testing.T) []*RecordSchema {
				return []*RecordSchema{record(t, "Node", "int", "Node")}
			},
		},
		{
			name: "mutual through array",
			records: func(t *testing.T) []*RecordSchema {
				return []*RecordSchema{
					record(t, "A", "[2]B"),
					record(t, "B", "struct{ Inner A }"),
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSet(tt.records(t)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRecursiveRecord)
		})
	}
}

func TestNewSet_IndirectionBreaksCycles(t *testing.T) {
	_, err := NewSet(
		record(t, "Node", "int", "*Node", "[]Node", "map[string]Node"),
	)
	assert.NoError(t, err)
}

func TestTopoSort(t *testing.T) {
	deps := map[int][]int{
		0: {2},
		1: {},
		2: {1},
		3: {0, 1},
	}

	order, stuck, err := topoSort(4, func(i int) []int { return deps[i] })
	require.NoError(t, err)
	assert.Empty(t, stuck)
	assert.Equal(t, []int{1, 2, 0, 3}, order)
}

func TestTopoSort_Cycle(t *testing.T) {
	deps := map[int][]int{
		0: {1},
		1: {0},
		2: {},
	}

	order, stuck, err := topoSort(3, func(i int) []int { return deps[i] })
	require.NoError(t, err)
	assert.Equal(t, []int{2}, order)
	assert.Equal(t, []int{0, 1}, stuck)
}

func TestTopoSort_OutOfRange(t *testing.T) {
	_, _, err := topoSort(1, func(int) []int { return []int{5} })
	assert.Error(t, err)
}
