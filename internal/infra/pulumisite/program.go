package pulumisite

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/moaiedu/staticsite/internal/domain"
)

// Program returns the inline Pulumi program for one site. outputDir is the
// absolute path of the build artifact directory.
func Program(site domain.SiteConfig, outputDir string) pulumi.RunFunc {
	return func(ctx *pulumi.Context) error {
		s, err := NewStaticSite(ctx, "StaticSite", &StaticSiteArgs{
			OutputDir:   outputDir,
			ErrorPage:   site.ErrorPage,
			AssetRoutes: site.Assets.Routes,
			Domain:      site.Domain,
			HostedZone:  site.HostedZone,
			Retain:      site.Removal == domain.RemovalRetain,
		})
		if err != nil {
			return err
		}

		ctx.Export(domain.OutputSiteURL, s.URL)
		ctx.Export(domain.OutputBucketName, s.BucketName)
		return nil
	}
}
