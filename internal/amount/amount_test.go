package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"2", 2},
		{"3.00", 3},
		{"  4.5", 4.5},
		{"-1.25", -1.25},
		{".5", 0.5},
		{"5.", 5},
		{"1e3", 1000},
		{"12abc", 12},
		{"1,5", 1},
		{"abc", 0},
		{"$5", 0},
		{"NaN", 0},
		{"Infinity", 0},
		{"0x10", 0},
		{"1e400", 0},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.in))
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("3.00"))
	assert.True(t, IsNumeric(" 7 "))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("12abc"))
	assert.False(t, IsNumeric("1,5"))
}

func TestProductAndSum(t *testing.T) {
	assert.Equal(t, 6.0, Product("2", "3.00"))
	assert.Equal(t, 0.0, Product("", "5"))
	assert.Equal(t, 7.5, Sum("2", "", "x", "5.5"))
	assert.Equal(t, 0.0, Sum())
}

func TestFixed2(t *testing.T) {
	assert.Equal(t, "6.00", Fixed2(6))
	assert.Equal(t, "0.00", Fixed2(0))
	assert.Equal(t, "0.10", Fixed2(0.1))
	assert.Equal(t, "0.30", Fixed2(0.1+0.2))
	assert.Equal(t, "-2.50", Fixed2(-2.5))
	assert.Equal(t, "1234.57", Fixed2(1234.567))
}
