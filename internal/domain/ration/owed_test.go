package ration

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwed_SubsidyThenPercents(t *testing.T) {
	m := percents("50", "50", "0", "0").With(Payer4, Entry{Amount: "40", Unit: FixedAmount})

	owed := Owed(m, dec("100"))

	assert.Equal(t, "30.00", owed.Of(Payer1).StringFixed(2))
	assert.Equal(t, "30.00", owed.Of(Payer2).StringFixed(2))
	assert.True(t, owed.Of(Payer3).IsZero())
	assert.Equal(t, "40.00", owed.Of(Payer4).StringFixed(2))
}

func TestOwed_FixesRoundingOnFullAllocation(t *testing.T) {
	owed := Owed(percents("33.333", "33.333", "33.334", "0"), dec("10"))

	assert.Equal(t, "3.34", owed.Of(Payer1).StringFixed(2))
	assert.Equal(t, "3.33", owed.Of(Payer2).StringFixed(2))
	assert.Equal(t, "3.33", owed.Of(Payer3).StringFixed(2))
	assert.True(t, dec("10").Equal(owed.Sum()))
}

func TestOwed_LeavesUnallocatedRemainder(t *testing.T) {
	owed := Owed(percents("25", "0", "0", "0"), dec("10"))

	assert.Equal(t, "2.50", owed.Of(Payer1).StringFixed(2))
	assert.True(t, dec("2.50").Equal(owed.Sum()))
}

func TestOwed_ZeroTotal(t *testing.T) {
	owed := Owed(percents("25", "25", "25", "25"), decimal.Zero)
	assert.True(t, owed.Sum().IsZero())
}

func TestAmountsJSON(t *testing.T) {
	owed := Owed(percents("50", "50", "0", "0"), dec("7"))

	data, err := json.Marshal(owed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Name #1":"3.50","Name #2":"3.50","Name #3":"0.00","Name #4":"0.00"}`, string(data))

	var decoded Amounts
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, dec("3.5").Equal(decoded.Of(Payer2)))
}
