package challenges

import (
	"fmt"
	"strings"
	"testing"

	"dicewager/bot/common"
	"dicewager/models"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeChallenges(n int) []models.Challenge {
	out := make([]models.Challenge, 0, n)
	for i := range n {
		out = append(out, models.Challenge{
			ID:        fmt.Sprintf("0000000%d-aaaa-bbbb-cccc-dddddddddddd", i),
			Amount:    decimal.NewFromInt(int64(1000 + i)),
			CreatorID: "USER_P1",
		})
	}
	return out
}

func TestBuildAcceptButtons(t *testing.T) {
	t.Run("rows of five", func(t *testing.T) {
		rows := buildAcceptButtons(makeChallenges(7))
		require.Len(t, rows, 2)
		assert.Len(t, rows[0].(discordgo.ActionsRow).Components, 5)
		assert.Len(t, rows[1].(discordgo.ActionsRow).Components, 2)

		button := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
		assert.Equal(t, acceptButtonPrefix+"00000000-aaaa-bbbb-cccc-dddddddddddd", button.CustomID)
		assert.Equal(t, "Accept 00000000-aaa (1,000)", button.Label)
	})

	t.Run("capped at message limit", func(t *testing.T) {
		rows := buildAcceptButtons(makeChallenges(30))
		assert.Len(t, rows, common.MaxActionRows)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, buildAcceptButtons(nil))
	})
}

func TestBuildListEmbed(t *testing.T) {
	empty := BuildListEmbed(nil)
	assert.Contains(t, empty.Description, "No open challenges")

	embed := BuildListEmbed(makeChallenges(27))
	lines := strings.Split(embed.Description, "\n")
	assert.Len(t, lines, common.MaxListedEntries+1)
	assert.Equal(t, "1. `00000000-aaa` 1,000 units", lines[0])
	assert.Equal(t, "…and 2 more", lines[len(lines)-1])
}

func TestBuildResultEmbed(t *testing.T) {
	tests := []struct {
		name      string
		result    models.SettlementResult
		wantTitle string
		wantDesc  string
		wantColor int
	}{
		{
			name: "creator wins",
			result: models.SettlementResult{
				ChallengeID: "abc", CreatorRoll: 90, AccepterRoll: 10, Winner: models.WinnerCreator,
				PrizePool: decimal.NewFromInt(200), PrizeWon: decimal.RequireFromString("199.9"), PlatformFee: decimal.RequireFromString("0.1"),
			},
			wantTitle: "Congratulations, You Won!",
			wantDesc:  "You won 199.9 units (after 0.10 units fee).",
			wantColor: common.ColorSuccess,
		},
		{
			name: "accepter wins",
			result: models.SettlementResult{
				ChallengeID: "abc", CreatorRoll: 10, AccepterRoll: 90, Winner: models.WinnerAccepter,
				PrizePool: decimal.NewFromInt(200), PrizeWon: decimal.RequireFromString("199.9"), PlatformFee: decimal.RequireFromString("0.1"),
			},
			wantTitle: "Better Luck Next Time!",
			wantDesc:  "Your opponent won. The prize was 199.9 units (after 0.10 units fee).",
			wantColor: common.ColorDanger,
		},
		{
			name: "tie",
			result: models.SettlementResult{
				ChallengeID: "abc", CreatorRoll: 42, AccepterRoll: 42, Winner: models.WinnerTie,
				PrizePool: decimal.NewFromInt(200), PrizeWon: decimal.NewFromInt(100), PlatformFee: decimal.Zero,
			},
			wantTitle: "It's a Tie!",
			wantDesc:  "Both players rolled 42. Bets are returned.",
			wantColor: common.ColorWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := BuildResultEmbed(&tt.result)
			assert.Equal(t, tt.wantTitle, embed.Title)
			assert.Equal(t, tt.wantDesc, embed.Description)
			assert.Equal(t, tt.wantColor, embed.Color)
			require.Len(t, embed.Fields, 4)
			assert.Equal(t, fmt.Sprintf("%d", tt.result.CreatorRoll), embed.Fields[0].Value)
			assert.Equal(t, common.FormatFee(tt.result.PlatformFee), embed.Fields[3].Value)
		})
	}
}

func TestBuildCreatedEmbed(t *testing.T) {
	embed := BuildCreatedEmbed(makeChallenges(2), decimal.NewFromInt(2001))
	assert.Equal(t, "2,001 units", embed.Fields[0].Value)
	assert.Len(t, strings.Split(embed.Description, "\n"), 2)
}
