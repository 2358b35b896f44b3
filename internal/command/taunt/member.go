package taunt

import (
	"fmt"

	"github.com/keshon/clan-taunt/internal/taunt"

	"github.com/bwmarrin/discordgo"
)

// guildMember adapts a Discord member to taunt.Member.
type guildMember struct {
	id        string
	mention   string
	roleNames []string
}

var _ taunt.Member = (*guildMember)(nil)

func (m *guildMember) ID() string      { return m.id }
func (m *guildMember) Mention() string { return m.mention }
func (m *guildMember) Roles() []string { return m.roleNames }

func newGuildMember(member *discordgo.Member, roles []*discordgo.Role) (*guildMember, error) {
	if member == nil || member.User == nil {
		return nil, fmt.Errorf("interaction has no guild member")
	}
	return &guildMember{
		id:        member.User.ID,
		mention:   member.User.Mention(),
		roleNames: roleNames(member.Roles, roles),
	}, nil
}

func guildRoles(s *discordgo.Session, guildID string) ([]*discordgo.Role, error) {
	if g, err := s.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		return g.Roles, nil
	}
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles for guild %s: %w", guildID, err)
	}
	return roles, nil
}

// roleNames resolves role IDs to names, skipping unknown IDs.
func roleNames(ids []string, roles []*discordgo.Role) []string {
	byID := make(map[string]string, len(roles))
	for _, r := range roles {
		byID[r.ID] = r.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// roleIndex maps role name to role ID.
func roleIndex(roles []*discordgo.Role) map[string]string {
	idx := make(map[string]string, len(roles))
	for _, r := range roles {
		idx[r.Name] = r.ID
	}
	return idx
}
