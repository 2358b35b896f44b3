// Package clan resolves which clan a guild member belongs to. A clan is a role
// whose name is on the guild's clan list.
package clan

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/keshon/clan-taunt/internal/taunt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrUnknownClan = errors.New("unknown clan")
	ErrClanExists  = errors.New("clan already exists")
)

// DisplayName normalizes a clan name for display ("red dragons" → "Red Dragons").
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.TrimSpace(name))
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Directory is a guild's clan list joined with its roles.
type Directory struct {
	clans map[string]string // key → display name
	roles map[string]string // key → role ID
}

// NewDirectory builds a directory from clan names and the guild's roles,
// given as role name → role ID.
func NewDirectory(clans []string, roles map[string]string) *Directory {
	d := &Directory{
		clans: make(map[string]string, len(clans)),
		roles: make(map[string]string, len(roles)),
	}
	for _, c := range clans {
		if key(c) == "" {
			continue
		}
		d.clans[key(c)] = DisplayName(c)
	}
	for name, id := range roles {
		d.roles[key(name)] = id
	}
	return d
}

var _ taunt.ClanDirectory = (*Directory)(nil)

// ClanOf returns the first of the member's roles that is a clan.
func (d *Directory) ClanOf(m taunt.Member) (string, bool) {
	for _, role := range m.Roles() {
		if name, ok := d.clans[key(role)]; ok {
			return name, true
		}
	}
	return "", false
}

// Mention renders the clan's role mention, or its bold name when the guild
// has no role for it.
func (d *Directory) Mention(clan string) string {
	if id, ok := d.roles[key(clan)]; ok {
		return fmt.Sprintf("<@&%s>", id)
	}
	return "**" + DisplayName(clan) + "**"
}

// Lookup returns the display name of a listed clan.
func (d *Directory) Lookup(name string) (string, bool) {
	display, ok := d.clans[key(name)]
	return display, ok
}

// Names returns the display names sorted alphabetically.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.clans))
	for _, n := range d.clans {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Add appends name to a clan list unless an equivalent entry exists.
func Add(list []string, name string) ([]string, error) {
	if key(name) == "" {
		return list, ErrUnknownClan
	}
	for _, c := range list {
		if key(c) == key(name) {
			return list, fmt.Errorf("%w: %s", ErrClanExists, DisplayName(name))
		}
	}
	return append(slices.Clone(list), DisplayName(name)), nil
}

// Remove drops name from a clan list.
func Remove(list []string, name string) ([]string, error) {
	for i, c := range list {
		if key(c) == key(name) {
			return slices.Delete(slices.Clone(list), i, i+1), nil
		}
	}
	return list, fmt.Errorf("%w: %s", ErrUnknownClan, DisplayName(name))
}
