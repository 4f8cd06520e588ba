package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/usecase"
)

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (expected %s)", format, strings.Join(allowed, "|"))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func printSite(w io.Writer, site domain.SiteConfig, format string) error {
	switch format {
	case "json":
		return writeJSON(w, site)
	case "yaml":
		return writeYAML(w, site)
	}

	th := styles()
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(th.Label.Render(label) + " " + value + "\n")
	}

	row("app", site.App)
	row("stage", string(site.Stage))
	row("region", site.Region)
	if site.Domain == nil {
		row("domain", "(disabled, CloudFront default hostname)")
	} else {
		row("domain", site.Domain.Primary()+" ["+string(site.Domain.Kind)+"]")
		for _, r := range site.Domain.Redirects {
			row("redirect", r+" -> "+site.Domain.Primary())
		}
		row("zone", site.HostedZone)
	}
	row("error page", site.ErrorPage)
	row("asset routes", strings.Join(site.Assets.Routes, ", "))
	row("build", site.Build.Command+" -> "+site.Build.Output)
	row("removal", string(site.Removal))

	_, err := fmt.Fprintln(w, th.Title.Render("Site configuration")+"\n"+th.Card.Render(strings.TrimRight(b.String(), "\n")))
	return err
}

func printOutputs(w io.Writer, out domain.SiteOutputs, format string) error {
	if format == "json" {
		return writeJSON(w, out)
	}
	th := styles()
	bucket := out.BucketName
	if bucket == "" {
		bucket = "-"
	}
	_, err := fmt.Fprintf(w, "%s %s\n%s %s\n",
		th.Label.Render(domain.OutputSiteURL), out.URL,
		th.Label.Render(domain.OutputBucketName), bucket)
	return err
}

func printDeploy(w io.Writer, res usecase.DeployResult) error {
	th := styles()
	if _, err := fmt.Fprintln(w, th.Pass.Render("Deployed")+" "+th.Subtitle.Render(string(res.Site.Stage))); err != nil {
		return err
	}
	if err := printOutputs(w, res.Deployment.Outputs, "pretty"); err != nil {
		return err
	}
	if res.RecordID != "" {
		_, err := fmt.Fprintln(w, th.Subtitle.Render("record: "+res.RecordID))
		return err
	}
	return nil
}

func printReport(w io.Writer, report usecase.VerifyReport, format string) error {
	if format == "json" {
		return writeJSON(w, report)
	}
	th := styles()
	for _, r := range report.Results {
		mark := th.Pass.Render("PASS")
		if !r.Passed {
			mark = th.Fail.Render("FAIL")
		}
		if _, err := fmt.Fprintf(w, "%s %-8s %s  %s (%dms)\n", mark, r.Expect, r.URL, r.Message, r.LatencyMS); err != nil {
			return err
		}
	}
	return nil
}
