package dynamic

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"builder-generator/builderrt"
	"builder-generator/schema"
)

func personSchema(t *testing.T, opts ...schema.Option) *schema.RecordSchema {
	t.Helper()

	s, err := schema.New("Person", []schema.FieldInput{
		{Name: "name", Type: schema.TypeOf[string]()},
		{Name: "age", Type: schema.TypeOf[uint32]()},
		{Name: "kids", Type: schema.TypeOf[[]string](), Rename: "descendents"},
	}, opts...)
	require.NoError(t, err)

	return s
}

func twoFieldSchema(t *testing.T, opts ...schema.Option) *schema.RecordSchema {
	t.Helper()

	s, err := schema.New("Person", []schema.FieldInput{
		{Name: "name", Type: schema.Type("string")},
		{Name: "age", Type: schema.Type("uint32")},
	}, opts...)
	require.NoError(t, err)

	return s
}

func TestBuilder_EndToEnd(t *testing.T) {
	b, err := New(personSchema(t))
	require.NoError(t, err)
	assert.Equal(t, builderrt.Init, b.State())

	next, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, "name", next)

	b, err = b.Set("WithName", "Alice")
	require.NoError(t, err)
	b, err = b.Set("age", uint32(30))
	require.NoError(t, err)
	b, err = b.Set("descendents", []string{"Bob"})
	require.NoError(t, err)

	assert.Equal(t, builderrt.State(3), b.State())

	_, ok = b.Next()
	assert.False(t, ok)

	rec, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "Person", rec.Name())
	assert.Equal(t, []any{"Alice", uint32(30), []string{"Bob"}}, rec.Values())
	assert.Equal(t, map[string]any{
		"name":        "Alice",
		"age":         uint32(30),
		"descendents": []string{"Bob"},
	}, rec.Map())

	v, ok := rec.Get("descendents")
	require.True(t, ok)
	assert.Equal(t, []string{"Bob"}, v)

	_, ok = rec.Get("kids")
	assert.False(t, ok, "declared name of a renamed field is not exposed")
}

func TestBuilder_OutOfOrderForEveryMismatch(t *testing.T) {
	s := personSchema(t)
	values := []any{"Alice", uint32(30), []string{"Bob"}}
	names := s.ExternalNames()

	for state := 0; state <= len(names); state++ {
		for j, name := range names {
			if j == state {
				continue
			}

			t.Run(fmt.Sprintf("state %d set %s", state, name), func(t *testing.T) {
				b := advance(t, s, values[:state])

				_, err := b.Set(name, values[j])

				var oe *builderrt.OutOfOrderError
				require.ErrorAs(t, err, &oe)
				assert.Equal(t, builderrt.State(j), oe.Expected)
				assert.Equal(t, builderrt.State(state), oe.Actual)

				_, err = b.SetAt(j, values[j])
				require.ErrorIs(t, err, builderrt.ErrOutOfOrder)

				assert.Equal(t, builderrt.State(state), b.State(), "failed set keeps the builder usable")
			})
		}
	}
}

func advance(t *testing.T, s *schema.RecordSchema, values []any) *Builder {
	t.Helper()

	b, err := New(s)
	require.NoError(t, err)

	for i, v := range values {
		b, err = b.SetAt(i, v)
		require.NoError(t, err)
	}

	return b
}

func TestBuilder_BuildBeforeFinal(t *testing.T) {
	s := personSchema(t)

	for state := range 3 {
		b := advance(t, s, []any{"Alice", uint32(30)}[:min(state, 2)])

		_, err := b.Build()

		var oe *builderrt.OutOfOrderError
		require.ErrorAs(t, err, &oe)
		assert.Equal(t, "Build", oe.Method)
		assert.Equal(t, builderrt.State(3), oe.Expected)
	}
}

func TestBuilder_Consumed(t *testing.T) {
	b, err := New(personSchema(t))
	require.NoError(t, err)

	next, err := b.Set("name", "Alice")
	require.NoError(t, err)

	_, err = b.Set("age", uint32(1))
	assert.ErrorIs(t, err, builderrt.ErrConsumed)
	assert.Equal(t, builderrt.State(-1), b.State())

	_, err = b.Build()
	assert.ErrorIs(t, err, builderrt.ErrConsumed)

	_, err = b.Snapshot()
	assert.ErrorIs(t, err, builderrt.ErrConsumed)

	final := advance(t, personSchema(t), []any{"Alice", uint32(1), []string(nil)})
	_, err = final.Build()
	require.NoError(t, err)

	_, err = final.Build()
	assert.ErrorIs(t, err, builderrt.ErrConsumed)

	var nilBuilder *Builder
	_, err = nilBuilder.Set("name", "x")
	assert.ErrorIs(t, err, builderrt.ErrConsumed)

	assert.Equal(t, builderrt.State(1), next.State())
}

func TestBuilder_UnknownField(t *testing.T) {
	b, err := New(personSchema(t))
	require.NoError(t, err)

	_, err = b.Set("nmae", "Alice")

	var ue *builderrt.UnknownFieldError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "name", ue.Suggestion)

	_, err = b.SetAt(7, "Alice")
	assert.Error(t, err)
}

func TestBuilder_TypeMismatch(t *testing.T) {
	b, err := New(personSchema(t))
	require.NoError(t, err)

	b, err = b.Set("name", "Alice")
	require.NoError(t, err)

	_, err = b.Set("age", "thirty")

	var te *builderrt.TypeMismatchError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "uint32", te.Want)
	assert.Equal(t, "string", te.Got)

	_, err = b.Set("age", nil)
	assert.ErrorIs(t, err, builderrt.ErrTypeMismatch)

	b, err = b.Set("age", uint32(30))
	require.NoError(t, err)

	_, err = b.Set("descendents", nil)
	assert.NoError(t, err, "nil is a valid slice value")
}

func TestBuilder_ExpressionTypesResolved(t *testing.T) {
	b, err := New(twoFieldSchema(t))
	require.NoError(t, err)

	b, err = b.Set("name", "Alice")
	require.NoError(t, err)

	_, err = b.Set("age", 30)
	assert.ErrorIs(t, err, builderrt.ErrTypeMismatch, "int is not assignable to uint32")
}

func TestBuilder_UnresolvedTypesUnchecked(t *testing.T) {
	s, err := schema.New("Order", []schema.FieldInput{
		{Name: "customer", Type: schema.Type("Customer")},
	})
	require.NoError(t, err)

	b, err := New(s)
	require.NoError(t, err)

	b, err = b.Set("customer", struct{ ID int }{ID: 1})
	require.NoError(t, err)

	_, err = b.Build()
	assert.NoError(t, err)
}

func TestBuilder_RestoredFinalMissingField(t *testing.T) {
	s := twoFieldSchema(t)

	b, err := Restore(s, Snapshot{
		Record: "Person",
		State:  2,
		Values: []any{"Alice", nil},
		Filled: []bool{true, false},
	})
	require.NoError(t, err)
	assert.Equal(t, builderrt.State(2), b.State())

	_, err = b.Build()

	var me *builderrt.MissingFieldError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 1, me.Position)
	assert.Equal(t, "age", me.Field)
}

func TestBuilder_DefaultingFillsZeroValues(t *testing.T) {
	s := twoFieldSchema(t, schema.WithDefaults(true))

	b, err := Restore(s, Snapshot{
		Record: "Person",
		State:  2,
		Values: []any{"Alice", nil},
		Filled: []bool{true, false},
	})
	require.NoError(t, err)

	rec, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "Alice", "age": uint32(0)}, rec.Map())
}

func TestSnapshot_HandOff(t *testing.T) {
	s := personSchema(t)
	b := advance(t, s, []any{"Alice"})

	snap, err := b.Snapshot()
	require.NoError(t, err)

	done := make(chan error, 1)

	go func() {
		other, err := Restore(s, snap)
		if err != nil {
			done <- err
			return
		}

		other, err = other.Set("age", uint32(30))
		if err != nil {
			done <- err
			return
		}

		other, err = other.Set("descendents", []string{})
		if err != nil {
			done <- err
			return
		}

		_, err = other.Build()
		done <- err
	}()

	require.NoError(t, <-done)

	// The original is untouched by the snapshot.
	assert.Equal(t, builderrt.State(1), b.State())
}

func TestRestore_Rejects(t *testing.T) {
	s := twoFieldSchema(t)

	tests := []struct {
		name string
		snap Snapshot
	}{
		{name: "other record", snap: Snapshot{Record: "Pet", Values: make([]any, 2), Filled: make([]bool, 2)}},
		{name: "state beyond final", snap: Snapshot{Record: "Person", State: 3, Values: make([]any, 2), Filled: make([]bool, 2)}},
		{name: "negative state", snap: Snapshot{Record: "Person", State: -1, Values: make([]any, 2), Filled: make([]bool, 2)}},
		{name: "short values", snap: Snapshot{Record: "Person", Values: make([]any, 1), Filled: make([]bool, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(s, tt.snap)
			assert.Error(t, err)
		})
	}
}

func TestRecord_Decode(t *testing.T) {
	type Person struct {
		Name string
		Age  uint32
		Kids []string
	}

	b := advance(t, personSchema(t), []any{"Alice", uint32(30), []string{"Bob", "Carol"}})

	rec, err := b.Build()
	require.NoError(t, err)

	var p Person
	require.NoError(t, rec.Decode(&p))
	assert.Equal(t, Person{Name: "Alice", Age: 30, Kids: []string{"Bob", "Carol"}}, p)

	var partial struct{ Name string }
	assert.Error(t, rec.Decode(&partial), "fields without a counterpart are reported")
}

func TestRecord_DecodeNormalizedNames(t *testing.T) {
	s, err := schema.New("Order", []schema.FieldInput{
		{Name: "order_id", Type: schema.TypeOf[int64]()},
		{Name: "placed_at", Type: schema.TypeOf[time.Time]()},
	})
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := advance(t, s, []any{int64(7), at})

	rec, err := b.Build()
	require.NoError(t, err)

	var order struct {
		OrderID  int64
		PlacedAt time.Time
	}
	require.NoError(t, rec.Decode(&order))
	assert.Equal(t, int64(7), order.OrderID)
	assert.True(t, at.Equal(order.PlacedAt))
}

func TestNew_RejectsNil(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, builderrt.ErrConsumed))
}
