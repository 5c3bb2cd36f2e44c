package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNew_NormalizesName(t *testing.T) {
	c := New(Options{Name: "ALGORITMOS I", ID: intPtr(1), Semester: 1})
	assert.Equal(t, "algoritmos i", c.Name())
}

func TestNew_Defaults(t *testing.T) {
	t.Run("omitted id is generated in range", func(t *testing.T) {
		for range 200 {
			c := New(Options{Name: "x", Semester: 1})
			assert.GreaterOrEqual(t, c.ID(), 1)
			assert.LessOrEqual(t, c.ID(), MaxRandomID)
		}
	})

	t.Run("zero id is treated as omitted", func(t *testing.T) {
		c := New(Options{Name: "x", ID: intPtr(0)})
		assert.NotZero(t, c.ID())
	})

	t.Run("omitted category is mandatory", func(t *testing.T) {
		c := New(Options{Name: "x"})
		assert.Equal(t, Mandatory, c.Category())
	})

	t.Run("explicit mandatory is kept", func(t *testing.T) {
		c := New(Options{Name: "x", Category: Mandatory.Ptr()})
		assert.Equal(t, Mandatory, c.Category())
	})

	t.Run("explicit elective is kept", func(t *testing.T) {
		c := New(Options{Name: "x", Category: Elective.Ptr()})
		assert.Equal(t, Elective, c.Category())
	})

	t.Run("omitted prerequisites is empty, not nil", func(t *testing.T) {
		c := New(Options{Name: "x"})
		require.NotNil(t, c.Prerequisites())
		assert.Empty(t, c.Prerequisites())
	})
}

func TestNew_AcceptsOutOfRangeValues(t *testing.T) {
	c := New(Options{Name: "x", ID: intPtr(-4), CreditHours: -10, Semester: 0})
	assert.Equal(t, -4, c.ID())
	assert.Equal(t, -10.0, c.CreditHours())
	assert.Equal(t, 0, c.Semester())
}

func TestNew_DeduplicatesPrerequisites(t *testing.T) {
	c := New(Options{Name: "x", ID: intPtr(5), Prerequisites: []int{3, 1, 3, 2, 1}})
	assert.Equal(t, []int{3, 1, 2}, c.Prerequisites())
}

func TestPrerequisites_DefensiveCopy(t *testing.T) {
	input := []int{1, 2}
	c := New(Options{Name: "x", ID: intPtr(3), Prerequisites: input})

	// Mutating the input after construction must not leak in.
	input[0] = 99
	assert.Equal(t, []int{1, 2}, c.Prerequisites())

	// Mutating the returned slice must not leak in either.
	got := c.Prerequisites()
	got[1] = 42
	assert.Equal(t, []int{1, 2}, c.Prerequisites())
}

func TestIsFreeElective(t *testing.T) {
	assert.True(t, New(Options{Name: "x", Semester: FreeElectiveSemester}).IsFreeElective())
	assert.False(t, New(Options{Name: "x", Semester: 3}).IsFreeElective())
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"mandatory":   Mandatory,
		"OBRIGATORIA": Mandatory,
		"Obrigatória": Mandatory,
		"elective":    Elective,
		" Optativa ":  Elective,
	}
	for in, want := range cases {
		got, err := ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCategory("complementar")
	assert.ErrorContains(t, err, "unknown course category")
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "mandatory", Mandatory.String())
	assert.Equal(t, "elective", Elective.String())
	assert.Equal(t, "category(7)", Category(7).String())
}
