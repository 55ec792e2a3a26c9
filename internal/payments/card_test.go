package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() CardFields {
	return CardFields{
		HolderName:   "Ayse Yilmaz",
		Number:       "5528790000000008",
		ExpireMonth:  "12",
		ExpireYear:   "30",
		CVC:          "123",
		Installments: 1,
	}
}

func TestCardFieldsNormalizeStripsSpacingAndDefaultsInstallments(t *testing.T) {
	card := CardFields{
		HolderName:  "  Ayse Yilmaz ",
		Number:      "5528 7900 0000-0008",
		ExpireMonth: "12",
		ExpireYear:  "30",
		CVC:         " 123 ",
	}.Normalize()

	assert.Equal(t, "Ayse Yilmaz", card.HolderName)
	assert.Equal(t, "5528790000000008", card.Number)
	assert.Equal(t, "123", card.CVC)
	assert.Equal(t, 1, card.Installments)
}

func TestCardFieldsValidate(t *testing.T) {
	require.NoError(t, validCard().Validate())

	cases := []struct {
		name   string
		mutate func(*CardFields)
	}{
		{name: "missing holder", mutate: func(c *CardFields) { c.HolderName = "" }},
		{name: "short pan", mutate: func(c *CardFields) { c.Number = "55287900000" }},
		{name: "long pan", mutate: func(c *CardFields) { c.Number = "55287900000000081234" }},
		{name: "pan with letters", mutate: func(c *CardFields) { c.Number = "5528790000ABCDEF" }},
		{name: "pan failing checksum", mutate: func(c *CardFields) { c.Number = "5528790000000009" }},
		{name: "month zero", mutate: func(c *CardFields) { c.ExpireMonth = "00" }},
		{name: "month thirteen", mutate: func(c *CardFields) { c.ExpireMonth = "13" }},
		{name: "single digit month", mutate: func(c *CardFields) { c.ExpireMonth = "3" }},
		{name: "four digit year", mutate: func(c *CardFields) { c.ExpireYear = "2030" }},
		{name: "short cvc", mutate: func(c *CardFields) { c.CVC = "12" }},
		{name: "long cvc", mutate: func(c *CardFields) { c.CVC = "12345" }},
		{name: "zero installments", mutate: func(c *CardFields) { c.Installments = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			card := validCard()
			tc.mutate(&card)
			assert.Error(t, card.Validate())
		})
	}
}

func TestLuhnChecksum(t *testing.T) {
	assert.True(t, luhnValid("4111111111111111"))
	assert.True(t, luhnValid("5528790000000008"))
	assert.False(t, luhnValid("4111111111111112"))
	assert.False(t, luhnValid("1234567890123456"))
}
