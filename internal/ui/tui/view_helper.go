package tui

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/moaiedu/staticsite/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderSiteDetails(t Theme, site domain.SiteConfig, latest *domain.Deployment, width int) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(t.Label.Render(label))
		b.WriteString(" ")
		b.WriteString(clampString(value, width))
		b.WriteString("\n")
	}

	row("region", site.Region)
	if site.Domain == nil {
		row("domain", "(disabled)")
	} else {
		row("hostname", site.Domain.Primary())
		for _, r := range site.Domain.Redirects {
			row("redirect", r)
		}
	}
	row("error page", site.ErrorPage)
	row("assets", strings.Join(site.Assets.Routes, ", "))
	row("build", site.Build.Command+" -> "+site.Build.Output)
	row("removal", string(site.Removal))

	b.WriteString("\n")
	if latest == nil {
		b.WriteString(t.Subtitle.Render("No deployment recorded for this stage."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(t.Title.Render("Last deployment"))
	b.WriteString("\n")
	row("id", latest.ID)
	row("finished", latest.EndedAt.UTC().Format(time.RFC3339))
	row("url", latest.Outputs.URL)
	bucket := latest.Outputs.BucketName
	if bucket == "" {
		bucket = "-"
	}
	row("bucket", bucket)
	return b.String()
}
