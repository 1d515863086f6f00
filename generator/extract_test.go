package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPercentage(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  float64
	}{
		{"bare integer", "75", 75},
		{"with percent sign", "75%", 75},
		{"embedded in japanese", "関連度は75%です", 75},
		{"decimal", "3.5", 3.5},
		{"decimal in sentence", "およそ82.5%と判断します", 82.5},
		{"first number wins", "10から20の間", 10},
		{"no digits", "no number here", 0},
		{"empty", "", 0},
		{"zero", "0", 0},
		{"hundred", "100", 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractPercentage(tc.reply))
		})
	}
}
