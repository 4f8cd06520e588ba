package tui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moaiedu/staticsite/internal/domain"
)

func cmdLoadStages(deps Deps) tea.Cmd {
	return func() tea.Msg {
		var refs []domain.EnvironmentRef
		if deps.Catalog != nil {
			r, err := deps.Catalog.ListEnvironments(deps.Root)
			if err != nil {
				return stagesLoadedMsg{err: err}
			}
			refs = r
		}
		return stagesLoadedMsg{stages: stageItems(refs, deps.DefaultStage)}
	}
}

// stageItems lists the stages with env files plus the default stage, which
// may live only in the process environment.
func stageItems(refs []domain.EnvironmentRef, defaultStage string) []stageItem {
	seen := map[string]bool{}
	var out []stageItem
	for _, r := range refs {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		out = append(out, stageItem{name: r.Name, path: r.Path, isDefault: r.Name == defaultStage})
	}
	if d := strings.TrimSpace(defaultStage); d != "" && !seen[d] {
		out = append(out, stageItem{name: d, isDefault: true})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].isDefault != out[j].isDefault {
			return out[i].isDefault
		}
		return out[i].name < out[j].name
	})
	return out
}

func cmdResolveStage(deps Deps, stage domain.Stage) tea.Cmd {
	return func() tea.Msg {
		msg := stageResolvedMsg{stage: stage}
		site, err := deps.Resolver.Execute(stage)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.site = site

		if deps.Store != nil {
			if d, err := deps.Store.LatestDeployment(stage); err == nil {
				msg.latest = &d
			} else if !domain.IsKind(err, domain.KindNotFound) && deps.Logger != nil {
				deps.Logger.Warn("tui.latest_deployment.failed", "stage", string(stage), "err", err)
			}
		}
		return msg
	}
}
