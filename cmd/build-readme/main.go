// Command build-readme renders README.md from README.md.tmpl with the list
// of slash commands.
package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"text/template"

	"github.com/keshon/clan-taunt/internal/command"
	"github.com/keshon/clan-taunt/internal/command/core"
	tauntcmd "github.com/keshon/clan-taunt/internal/command/taunt"
	"github.com/keshon/clan-taunt/internal/config"

	"github.com/rs/zerolog/log"
)

type CmdInfo struct {
	Name        string
	Description string
	Category    string
}

func main() {
	registry := command.NewRegistry()
	command.DefaultRegistry = registry
	tauntcmd.Register(&tauntcmd.Service{})
	core.Register(registry)

	tmplData, err := os.ReadFile("README.md.tmpl")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read template")
	}
	tmpl, err := template.New("readme").Parse(string(tmplData))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse template")
	}

	data := map[string]any{
		"AppName":         config.AppName,
		"CommandSections": commandSections(registry.GetAll()),
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		log.Fatal().Err(err).Msg("Failed to render README")
	}
	if err := os.WriteFile("README.md", out.Bytes(), 0o644); err != nil {
		log.Fatal().Err(err).Msg("Failed to write README")
	}
}

func commandSections(cmds []command.Command) string {
	sections := make(map[string][]CmdInfo)
	for _, c := range cmds {
		meta, ok := command.Root(c).(command.DiscordMeta)
		if !ok {
			continue
		}
		info := CmdInfo{Name: "/" + c.Name(), Description: c.Description(), Category: meta.Category()}
		sections[info.Category] = append(sections[info.Category], info)
	}

	cats := make([]string, 0, len(sections))
	for cat := range sections {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		return config.CategoryWeights[cats[i]] < config.CategoryWeights[cats[j]]
	})

	var buf bytes.Buffer
	for _, cat := range cats {
		infos := sections[cat]
		sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
		fmt.Fprintf(&buf, "### %s\n\n", cat)
		for _, c := range infos {
			fmt.Fprintf(&buf, "* **`%s`**\n  %s\n\n", c.Name, c.Description)
		}
	}
	return buf.String()
}
