package outcomes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestCorrectWithLine(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		line   string
		actual float64
		want   bool
	}{
		{"over above", 10, "Over", 11, true},
		{"over below", 10, "Over", 9, false},
		{"over equal", 10, "Over", 10, false},
		{"under below", 10, "Under", 9, true},
		{"under equal", 10, "Under", 10, false},
		{"yes equal", 2, "Yes", 2, true},
		{"yes below", 2, "sim", 1, false},
		{"no below", 1, "No", 0, true},
		{"no equal", 1, "não", 1, false},
		{"nao ascii", 1, "NAO", 0, true},
		{"mais lower case", 4.5, "mais", 5, true},
		{"acima", 4.5, "Acima", 4, false},
		{"menos", 4.5, "menos", 4, true},
		{"abaixo", 4.5, "ABAIXO", 5, false},
		{"padded line", 10, "  over ", 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Correct(ptr(tt.value), ptr(tt.line), tt.actual))
		})
	}
}

func TestCorrectTolerance(t *testing.T) {
	v := 10.0
	assert.True(t, Correct(&v, nil, v*1.05))
	assert.False(t, Correct(&v, nil, v*1.2))
	assert.True(t, Correct(&v, nil, 9.0))
	assert.False(t, Correct(&v, nil, 8.9))
}

func TestCorrectUnknownLineFallsBackToTolerance(t *testing.T) {
	v := 10.0
	assert.True(t, Correct(&v, ptr("maybe"), 10.5))
	assert.False(t, Correct(&v, ptr("maybe"), 12))
}

func TestCorrectWithoutValue(t *testing.T) {
	assert.False(t, Correct(nil, ptr("Over"), 100))
	assert.False(t, Correct(nil, nil, 0))
}

func TestCorrectZeroThreshold(t *testing.T) {
	zero := 0.0
	assert.True(t, Correct(&zero, nil, 0))
	assert.False(t, Correct(&zero, nil, 0.01))
}

func TestCorrectNegativeThreshold(t *testing.T) {
	negative := -5.0
	assert.False(t, Correct(&negative, nil, -5))
	assert.True(t, Correct(&negative, ptr("Over"), -4))
}

func TestNormalizeLine(t *testing.T) {
	got, ok := NormalizeLine("Abaixo")
	assert.True(t, ok)
	assert.Equal(t, LineUnder, got)

	_, ok = NormalizeLine("exact")
	assert.False(t, ok)
}

func TestLineFromRecommendation(t *testing.T) {
	tests := []struct {
		text string
		want *string
	}{
		{"Over 10.5 escanteios", ptr(LineOver)},
		{"Mais de 4.5 cartões", ptr(LineOver)},
		{"Under 2.5 gols", ptr(LineUnder)},
		{"Ambos marcam", ptr(LineYes)},
		{"Não", ptr(LineNo)},
		{"Empate", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, LineFromRecommendation(tt.text))
		})
	}
}
