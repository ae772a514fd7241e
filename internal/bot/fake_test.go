package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"rosterbot/internal/roster"
)

type sentMessage struct {
	ChannelID string
	Data      *discordgo.MessageSend
}

// FakeDiscord records sent messages and serves members page by page.
type FakeDiscord struct {
	mu          sync.Mutex
	sent        []sentMessage
	memberCalls int
	Members     []*discordgo.Member
	MembersErr  error
	SendFunc    func(channelID string, data *discordgo.MessageSend) error
}

func (f *FakeDiscord) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendFunc != nil {
		if err := f.SendFunc(channelID, data); err != nil {
			return nil, err
		}
	}
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Data: data})
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *FakeDiscord) GuildMembers(guildID string, after string, limit int, _ ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberCalls++
	if f.MembersErr != nil {
		return nil, f.MembersErr
	}
	start := 0
	if after != "" {
		for i, m := range f.Members {
			if m.User != nil && m.User.ID == after {
				start = i + 1
				break
			}
		}
	}
	end := min(start+limit, len(f.Members))
	return f.Members[start:end], nil
}

func (f *FakeDiscord) Sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func member(id, username, nick string) *discordgo.Member {
	return &discordgo.Member{GuildID: "g1", Nick: nick, User: &discordgo.User{ID: id, Username: username}}
}

// FakeFetcher returns a fixed roster or error.
type FakeFetcher struct {
	Entries []roster.Entry
	Err     error
}

func (f *FakeFetcher) FetchRoster(_ context.Context, id roster.Identity) ([]roster.Entry, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if !id.Complete() {
		return nil, roster.NewFetchError(roster.NotConfigured, fmt.Errorf("incomplete identity %s", id))
	}
	return f.Entries, nil
}

// FakeMembers is a static members source.
type FakeMembers struct {
	Members []roster.Member
	Err     error
}

func (f *FakeMembers) ListMembers(context.Context, string) ([]roster.Member, error) {
	return f.Members, f.Err
}
