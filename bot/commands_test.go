package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiceCommand(t *testing.T) {
	cmd := diceCommand()
	assert.Equal(t, "dice", cmd.Name)

	names := map[string]*discordgo.ApplicationCommandOption{}
	for _, opt := range cmd.Options {
		assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, opt.Type)
		names[opt.Name] = opt
	}
	require.Contains(t, names, "create")
	require.Contains(t, names, "list")
	require.Contains(t, names, "balance")

	create := names["create"]
	require.Len(t, create.Options, 2)
	assert.Equal(t, "amount", create.Options[0].Name)
	assert.Equal(t, discordgo.ApplicationCommandOptionNumber, create.Options[0].Type)
	assert.True(t, create.Options[0].Required)
	assert.Equal(t, "count", create.Options[1].Name)
	assert.Equal(t, discordgo.ApplicationCommandOptionInteger, create.Options[1].Type)
}
