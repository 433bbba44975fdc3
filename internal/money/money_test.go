package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		millimes int64
		want     string
	}{
		{0, "0.000"},
		{1500, "1.500"},
		{2500, "2.500"},
		{5500, "5.500"},
		{1, "0.001"},
		{999, "0.999"},
		{1000, "1.000"},
		{123456, "123.456"},
		{-1500, "-1.500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.millimes))
	}
}

func TestFormatWithCode(t *testing.T) {
	assert.Equal(t, "5.500 TND", FormatWithCode(5500, "TND"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1.5", 1500},
		{"1.500", 1500},
		{"2.500", 2500},
		{"0.001", 1},
		{"4", 4000},
		{".5", 500},
		{"-1.2", -1200},
		{" 3.000 ", 3000},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2345", "1.2.3", "1.-5", "-", ".", "1. 5"} {
		_, err := Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 999, 1500, 5500, 123456} {
		got, err := Parse(Format(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}
