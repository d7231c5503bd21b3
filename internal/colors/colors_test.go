package colors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"#FFF", "#fff"},
		{"#ff5733", "#ff5733"},
		{"#FF5733FF", "#ff5733ff"},
		{"  #AbC  ", "#abc"},
		{"RGB(255, 87, 51)", "rgb(255, 87, 51)"},
		{"rgb(0,0,0)", "rgb(0,0,0)"},
		{"rgba(255, 87, 51, 0.8)", "rgba(255, 87, 51, 0.8)"},
		{"rgba(255,87,51,1)", "rgba(255,87,51,1)"},
		{"rgba(255,87,51,.5)", "rgba(255,87,51,.5)"},
		{"hsl(9, 100%, 60%)", "hsl(9, 100%, 60%)"},
		{"hsl(360,100%,100%)", "hsl(360,100%,100%)"},
		{"hsla(9, 100%, 60%, 0.8)", "hsla(9, 100%, 60%, 0.8)"},
		{"RED", "red"},
		{"transparent", "transparent"},
		{" LightGoldenrodYellow ", "lightgoldenrodyellow"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseIdempotent(t *testing.T) {
	inputs := []string{
		"#FFF", "RGB(255, 87, 51)", "rgba(1,2,3,0.5)",
		"hsl(9, 100%, 60%)", "hsla(9, 100%, 60%, 1)", "RED", "",
	}
	for _, in := range inputs {
		once, err := Parse(in)
		require.NoError(t, err)
		twice, err := Parse(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "re-parsing %q must be stable", in)
	}
}

func TestParseRangeErrors(t *testing.T) {
	cases := []struct {
		in      string
		wantMsg string
	}{
		{"rgb(256,0,0)", "RGB values must be between 0 and 255"},
		{"rgb(0, 300, 0)", "RGB values must be between 0 and 255"},
		{"rgba(256,0,0,0.5)", "RGBA values must be: RGB 0-255, Alpha 0-1"},
		{"rgba(0,0,0,1.5)", "RGBA values must be: RGB 0-255, Alpha 0-1"},
		{"hsl(361, 50%, 50%)", "HSL values must be: H 0-360, S/L 0-100%"},
		{"hsl(10, 101%, 50%)", "HSL values must be: H 0-360, S/L 0-100%"},
		{"hsla(361, 50%, 50%, 0.5)", "HSLA values must be: H 0-360, S/L 0-100%, Alpha 0-1"},
		{"hsla(10, 50%, 50%, 2)", "HSLA values must be: H 0-360, S/L 0-100%, Alpha 0-1"},
	}
	for _, tc := range cases {
		_, err := Parse(tc.in)
		require.Error(t, err, "input %q", tc.in)
		var cerr *InvalidColorError
		require.ErrorAs(t, err, &cerr, "input %q", tc.in)
		assert.Equal(t, tc.wantMsg, cerr.Message, "input %q", tc.in)
	}
}

func TestParseStructuralErrors(t *testing.T) {
	inputs := []string{
		"not-a-color",
		"#ff",
		"#fffff",
		"#ggg",
		"rgb(1,2)",
		"rgb(1,2,3,4)",
		"rgb(1234,0,0)", // four digits never match the grammar
		"hsl(9, 100, 60)",
		"rgba(1,2,3)",
		"hsla(9, 100%, 60%)",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		require.Error(t, err, "input %q", in)
		var cerr *InvalidColorError
		require.ErrorAs(t, err, &cerr)
		assert.Contains(t, cerr.Message, "Supported formats", "input %q", in)
	}
}

func TestParseTooLong(t *testing.T) {
	_, err := Parse("#" + strings.Repeat("f", MaxLength))
	var cerr *InvalidColorError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Message, "at most")
}
