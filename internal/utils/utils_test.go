package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseOf(t *testing.T) {
	testCases := []struct {
		input string
		want  Case
	}{
		{"teh", CaseLower},
		{"Teh", CaseTitle},
		{"TEH", CaseUpper},
		{"tEh", CaseMixed},
		{"McDonald", CaseMixed},
		{"A", CaseTitle},
		{"1984", CaseNone},
		{"", CaseNone},
		{"É", CaseTitle},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, CaseOf(tc.input))
		})
	}
}

func TestApplyCase(t *testing.T) {
	assert.Equal(t, "The", ApplyCase("the", "Teh"))
	assert.Equal(t, "THE", ApplyCase("the", "TEH"))
	assert.Equal(t, "the", ApplyCase("the", "teh"))
	assert.Equal(t, "McDonald", ApplyCase("mcdonald", "McDonnald"))
	assert.Equal(t, "Éclair", ApplyCase("éclair", "Eclar"))
}

func TestLowerTitle(t *testing.T) {
	assert.Equal(t, "paris", Lower("PARIS"))
	assert.Equal(t, "Paris", Title("PARIS"))
	assert.Equal(t, "straße", Lower("Straße"))
}

func TestNFC(t *testing.T) {
	decomposed := "cafe\u0301"
	assert.Equal(t, "café", NFC(decomposed))
	assert.Equal(t, "café", NFC("café"))
}

func TestStringClassification(t *testing.T) {
	assert.True(t, HasLetter("a1"))
	assert.False(t, HasLetter("1984"))
	assert.False(t, HasLetter("--"))
}

func TestFormatWithCommas(t *testing.T) {
	assert.Equal(t, "999", FormatWithCommas(999))
	assert.Equal(t, "1,000", FormatWithCommas(1000))
	assert.Equal(t, "65,535", FormatWithCommas(65535))
	assert.Equal(t, "-1,234,567", FormatWithCommas(-1234567))
}

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("paris")
	assert.False(t, f.ShouldInclude("paris"))
	assert.True(t, f.ShouldInclude("Paris"))
	assert.False(t, f.ShouldInclude("Paris"))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
	assert.Empty(t, CreateRankList(0))
}
