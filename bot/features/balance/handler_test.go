package balance

import (
	"testing"

	"dicewager/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBalanceEmbed(t *testing.T) {
	state := models.NewLedgerState(decimal.RequireFromString("1099.9"))
	state.FeesCollected = decimal.RequireFromString("0.1")
	state.OpenChallenges = []models.Challenge{
		{ID: "a", Amount: decimal.NewFromInt(250), CreatorID: "USER_P1"},
		{ID: "b", Amount: decimal.NewFromInt(1000), CreatorID: "USER_P1"},
	}

	embed := BuildBalanceEmbed(state)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "1,099.9 units", embed.Fields[0].Value)
	assert.Equal(t, "1,250 units", embed.Fields[1].Value)
	assert.Equal(t, "2", embed.Fields[2].Value)
	assert.Equal(t, "0.1 units", embed.Fields[3].Value)
}
