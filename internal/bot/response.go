package bot

import (
	"github.com/bwmarrin/discordgo"
)

type ResponseString struct {
	string
}
type ResponseEmbed struct {
	discordgo.MessageEmbed
}

type Response interface {
	Send(channelid string, discord Session) error
}

// Messages never ping anybody, mentions are only there to be clicked.
var noMentions = &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}

func (response ResponseString) Send(channelid string, discord Session) error {
	_, err := discord.ChannelMessageSendComplex(channelid, &discordgo.MessageSend{
		Content:         response.string,
		AllowedMentions: noMentions,
	})
	return err
}

func (response ResponseEmbed) Send(channelid string, discord Session) error {
	_, err := discord.ChannelMessageSendComplex(channelid, &discordgo.MessageSend{
		Embeds:          []*discordgo.MessageEmbed{&response.MessageEmbed},
		AllowedMentions: noMentions,
	})
	return err
}
