package tui

import "github.com/moaiedu/staticsite/internal/domain"

type stagesLoadedMsg struct {
	stages []stageItem
	err    error
}

type stageResolvedMsg struct {
	stage  domain.Stage
	site   domain.SiteConfig
	latest *domain.Deployment
	err    error
}
