package pulumisite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudfront"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/s3"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/moaiedu/staticsite/internal/domain"
)

const (
	componentType = "staticsite:aws:StaticSite"
	originID      = "s3"

	// AWS managed cache policy "CachingOptimized". It honours the
	// Cache-Control headers written on each uploaded object.
	cachingOptimizedPolicy = "658327ea-f89d-4fab-a63d-7e88639e58f6"
)

// StaticSite is a private S3 bucket served through CloudFront, optionally
// bound to custom hostnames with a certificate and DNS records.
type StaticSite struct {
	pulumi.ResourceState

	URL            pulumi.StringOutput `pulumi:"url"`
	BucketName     pulumi.StringOutput `pulumi:"bucketName"`
	DistributionID pulumi.StringOutput `pulumi:"distributionId"`
}

// StaticSiteArgs configures a StaticSite.
type StaticSiteArgs struct {
	// OutputDir is the local build artifact directory uploaded to the bucket.
	OutputDir   string
	ErrorPage   string
	AssetRoutes []string

	// Domain is nil when the site is served from the CloudFront default hostname.
	Domain     *domain.DomainConfig
	HostedZone string

	// Retain keeps the bucket and its objects when the stack is destroyed.
	Retain bool
}

func NewStaticSite(ctx *pulumi.Context, name string, args *StaticSiteArgs, opts ...pulumi.ResourceOption) (*StaticSite, error) {
	if args == nil {
		return nil, fmt.Errorf("staticsite %s: args are required", name)
	}

	site := &StaticSite{}
	if err := ctx.RegisterComponentResource(componentType, name, site, opts...); err != nil {
		return nil, err
	}
	parent := pulumi.Parent(site)

	routes := domain.AssetRoutingSpec{Routes: args.AssetRoutes}
	files, err := collectAssets(args.OutputDir, routes)
	if err != nil {
		return nil, fmt.Errorf("staticsite %s: read %s: %w", name, args.OutputDir, err)
	}

	stateful := []pulumi.ResourceOption{parent}
	if args.Retain {
		stateful = append(stateful, pulumi.RetainOnDelete(true))
	}

	bucket, err := s3.NewBucketV2(ctx, name+"-bucket", &s3.BucketV2Args{
		ForceDestroy: pulumi.Bool(!args.Retain),
	}, stateful...)
	if err != nil {
		return nil, err
	}

	if _, err := s3.NewBucketPublicAccessBlock(ctx, name+"-bucket-public-access", &s3.BucketPublicAccessBlockArgs{
		Bucket:                bucket.Bucket,
		BlockPublicAcls:       pulumi.Bool(true),
		BlockPublicPolicy:     pulumi.Bool(true),
		IgnorePublicAcls:      pulumi.Bool(true),
		RestrictPublicBuckets: pulumi.Bool(true),
	}, parent); err != nil {
		return nil, err
	}

	for _, f := range files {
		if _, err := s3.NewBucketObjectv2(ctx, name+"-asset-"+f.Key, &s3.BucketObjectv2Args{
			Bucket:       bucket.Bucket,
			Key:          pulumi.String(f.Key),
			Source:       pulumi.NewFileAsset(f.Path),
			ContentType:  pulumi.String(f.ContentType),
			CacheControl: pulumi.String(f.CacheControl),
		}, stateful...); err != nil {
			return nil, err
		}
	}

	physical := physicalName(ctx.Project() + "-" + ctx.Stack() + "-" + name)

	oac, err := cloudfront.NewOriginAccessControl(ctx, name+"-oac", &cloudfront.OriginAccessControlArgs{
		Name:                          pulumi.String(physical),
		Description:                   pulumi.String("Origin access for " + name),
		OriginAccessControlOriginType: pulumi.String("s3"),
		SigningBehavior:               pulumi.String("always"),
		SigningProtocol:               pulumi.String("sigv4"),
	}, parent)
	if err != nil {
		return nil, err
	}

	var primary string
	var redirects []string
	if args.Domain != nil {
		primary = args.Domain.Primary()
		redirects = args.Domain.Redirects
	}
	code, err := routerCode(primary, redirects, args.AssetRoutes)
	if err != nil {
		return nil, fmt.Errorf("staticsite %s: router: %w", name, err)
	}

	router, err := cloudfront.NewFunction(ctx, name+"-router", &cloudfront.FunctionArgs{
		Name:    pulumi.String(physical),
		Runtime: pulumi.String("cloudfront-js-2.0"),
		Comment: pulumi.String("Redirects and index rewrites for " + name),
		Code:    pulumi.String(code),
		Publish: pulumi.Bool(true),
	}, parent)
	if err != nil {
		return nil, err
	}

	var zoneID string
	viewerCert := &cloudfront.DistributionViewerCertificateArgs{
		CloudfrontDefaultCertificate: pulumi.Bool(true),
	}
	aliases := pulumi.StringArray{}
	if args.Domain != nil {
		zoneID, err = lookupZoneID(ctx, args.HostedZone, site)
		if err != nil {
			return nil, err
		}
		certArn, err := newValidatedCertificate(ctx, name, args.Domain, zoneID, site)
		if err != nil {
			return nil, err
		}
		viewerCert = &cloudfront.DistributionViewerCertificateArgs{
			AcmCertificateArn:      certArn,
			SslSupportMethod:       pulumi.String("sni-only"),
			MinimumProtocolVersion: pulumi.String("TLSv1.2_2021"),
		}
		for _, h := range args.Domain.Hostnames() {
			aliases = append(aliases, pulumi.String(h))
		}
	}

	ordered := cloudfront.DistributionOrderedCacheBehaviorArray{}
	for _, r := range args.AssetRoutes {
		r = strings.Trim(r, "/")
		if r == "" {
			continue
		}
		ordered = append(ordered, &cloudfront.DistributionOrderedCacheBehaviorArgs{
			PathPattern:          pulumi.String("/" + r + "/*"),
			TargetOriginId:       pulumi.String(originID),
			ViewerProtocolPolicy: pulumi.String("redirect-to-https"),
			AllowedMethods:       pulumi.ToStringArray([]string{"GET", "HEAD", "OPTIONS"}),
			CachedMethods:        pulumi.ToStringArray([]string{"GET", "HEAD"}),
			Compress:             pulumi.Bool(true),
			CachePolicyId:        pulumi.String(cachingOptimizedPolicy),
			FunctionAssociations: cloudfront.DistributionOrderedCacheBehaviorFunctionAssociationArray{
				&cloudfront.DistributionOrderedCacheBehaviorFunctionAssociationArgs{
					EventType:   pulumi.String("viewer-request"),
					FunctionArn: router.Arn,
				},
			},
		})
	}

	errorPath := "/" + strings.TrimPrefix(args.ErrorPage, "/")
	errorResponses := cloudfront.DistributionCustomErrorResponseArray{}
	for _, status := range []int{403, 404} {
		errorResponses = append(errorResponses, &cloudfront.DistributionCustomErrorResponseArgs{
			ErrorCode:          pulumi.Int(status),
			ResponseCode:       pulumi.Int(404),
			ResponsePagePath:   pulumi.String(errorPath),
			ErrorCachingMinTtl: pulumi.Int(0),
		})
	}

	dist, err := cloudfront.NewDistribution(ctx, name+"-cdn", &cloudfront.DistributionArgs{
		Enabled:           pulumi.Bool(true),
		Comment:           pulumi.String(physical),
		Aliases:           aliases,
		DefaultRootObject: pulumi.String("index.html"),
		IsIpv6Enabled:     pulumi.Bool(true),
		HttpVersion:       pulumi.String("http2and3"),
		PriceClass:        pulumi.String("PriceClass_All"),
		Origins: cloudfront.DistributionOriginArray{
			&cloudfront.DistributionOriginArgs{
				OriginId:              pulumi.String(originID),
				DomainName:            bucket.BucketRegionalDomainName,
				OriginAccessControlId: oac.ID().ToStringOutput(),
			},
		},
		DefaultCacheBehavior: &cloudfront.DistributionDefaultCacheBehaviorArgs{
			TargetOriginId:       pulumi.String(originID),
			ViewerProtocolPolicy: pulumi.String("redirect-to-https"),
			AllowedMethods:       pulumi.ToStringArray([]string{"GET", "HEAD", "OPTIONS"}),
			CachedMethods:        pulumi.ToStringArray([]string{"GET", "HEAD"}),
			Compress:             pulumi.Bool(true),
			CachePolicyId:        pulumi.String(cachingOptimizedPolicy),
			FunctionAssociations: cloudfront.DistributionDefaultCacheBehaviorFunctionAssociationArray{
				&cloudfront.DistributionDefaultCacheBehaviorFunctionAssociationArgs{
					EventType:   pulumi.String("viewer-request"),
					FunctionArn: router.Arn,
				},
			},
		},
		OrderedCacheBehaviors: ordered,
		CustomErrorResponses:  errorResponses,
		Restrictions: &cloudfront.DistributionRestrictionsArgs{
			GeoRestriction: &cloudfront.DistributionRestrictionsGeoRestrictionArgs{
				RestrictionType: pulumi.String("none"),
			},
		},
		ViewerCertificate: viewerCert,
	}, parent)
	if err != nil {
		return nil, err
	}

	policy := pulumi.All(bucket.Arn, dist.Arn).ApplyT(func(xs []interface{}) (string, error) {
		return bucketPolicy(xs[0].(string), xs[1].(string))
	}).(pulumi.StringOutput)
	if _, err := s3.NewBucketPolicy(ctx, name+"-bucket-policy", &s3.BucketPolicyArgs{
		Bucket: bucket.Bucket,
		Policy: policy,
	}, parent); err != nil {
		return nil, err
	}

	if args.Domain != nil {
		if err := newAliasRecords(ctx, name, args.Domain.Hostnames(), zoneID, dist.DomainName, dist.HostedZoneId, site); err != nil {
			return nil, err
		}
		site.URL = pulumi.String("https://" + primary).ToStringOutput()
	} else {
		site.URL = pulumi.Sprintf("https://%s", dist.DomainName)
	}
	site.BucketName = bucket.Bucket
	site.DistributionID = dist.ID().ToStringOutput()

	if err := ctx.RegisterResourceOutputs(site, pulumi.Map{
		"url":            site.URL,
		"bucketName":     site.BucketName,
		"distributionId": site.DistributionID,
	}); err != nil {
		return nil, err
	}
	return site, nil
}

var invalidPhysical = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// physicalName fits s to the 64-character [A-Za-z0-9_-] limit shared by
// CloudFront function and origin access control names.
func physicalName(s string) string {
	const max = 64
	s = invalidPhysical.ReplaceAllString(s, "-")
	if len(s) > max {
		s = s[:max]
	}
	return strings.Trim(s, "-")
}
