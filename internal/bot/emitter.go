package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"rosterbot/internal/roster"
)

// Discord accepts up to 10 embeds in a message.
const maxEmbedsPerMessage = 10

// NotificationEmitter posts roster changes to the log channel of a guild.
type NotificationEmitter struct {
	discord Session
	store   roster.Store
	members roster.MembersSource
	limiter *rate.Limiter
}

var _ roster.Emitter = (*NotificationEmitter)(nil)

// NewNotificationEmitter paces messages to perSecond across all guilds.
func NewNotificationEmitter(discord Session, store roster.Store, members roster.MembersSource, perSecond float64) *NotificationEmitter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &NotificationEmitter{
		discord: discord,
		store:   store,
		members: members,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (e *NotificationEmitter) Send(ctx context.Context, guildID string, batch []roster.ChangeEvent) error {
	tracking, err := e.store.Tracking(ctx, guildID)
	if err != nil {
		return fmt.Errorf("read tracking config: %w", err)
	}
	if tracking.LogChannelID == "" {
		return fmt.Errorf("guild %s has no log channel", guildID)
	}

	// Missing member names only make the descriptions empty.
	members, err := e.members.ListMembers(ctx, guildID)
	if err != nil {
		log.Warn().Err(err).Str("guild", guildID).Msg("Could not list members, sending notifications without them")
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(batch))
	for _, event := range batch {
		embed, err := e.embed(ctx, guildID, event, members)
		if err != nil {
			return err
		}
		embeds = append(embeds, embed)
	}

	for start := 0; start < len(embeds); start += maxEmbedsPerMessage {
		end := min(start+maxEmbedsPerMessage, len(embeds))
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err := e.discord.ChannelMessageSendComplex(tracking.LogChannelID, &discordgo.MessageSend{
			Embeds:          embeds[start:end],
			AllowedMentions: noMentions,
			Flags:           discordgo.MessageFlagsSuppressNotifications,
		})
		if err != nil {
			return fmt.Errorf("send to channel %s: %w", tracking.LogChannelID, err)
		}
	}
	return nil
}

func (e *NotificationEmitter) embed(ctx context.Context, guildID string, event roster.ChangeEvent, members []roster.Member) (*discordgo.MessageEmbed, error) {
	var oldLabel, newLabel string
	var err error
	if event.OldRank != 0 {
		if oldLabel, err = e.store.RankLabel(ctx, guildID, event.OldRank); err != nil {
			return nil, fmt.Errorf("read rank label: %w", err)
		}
	}
	if event.NewRank != 0 {
		if newLabel, err = e.store.RankLabel(ctx, guildID, event.NewRank); err != nil {
			return nil, fmt.Errorf("read rank label: %w", err)
		}
	}

	matched := roster.ResolveDiscordMembers(event.Name, members)
	mentions := make([]string, len(matched))
	for i, m := range matched {
		mentions[i] = m.Mention()
	}
	return ChangeEmbed(event, oldLabel, newLabel, mentions), nil
}
