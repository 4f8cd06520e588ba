package pulumisite

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/acm"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/route53"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/moaiedu/staticsite/internal/domain"
)

// CloudFront only accepts certificates issued in us-east-1.
const certificateRegion = "us-east-1"

func lookupZoneID(ctx *pulumi.Context, zone string, parent pulumi.Resource) (string, error) {
	res, err := route53.LookupZone(ctx, &route53.LookupZoneArgs{
		Name:        pulumi.StringRef(zone),
		PrivateZone: pulumi.BoolRef(false),
	}, pulumi.Parent(parent))
	if err != nil {
		return "", fmt.Errorf("lookup hosted zone %s: %w", zone, err)
	}
	return res.ZoneId, nil
}

// newValidatedCertificate issues a DNS-validated certificate covering every
// hostname of d and returns its ARN once validation has completed.
func newValidatedCertificate(ctx *pulumi.Context, name string, d *domain.DomainConfig, zoneID string, parent pulumi.Resource) (pulumi.StringOutput, error) {
	provider, err := aws.NewProvider(ctx, name+"-"+certificateRegion, &aws.ProviderArgs{
		Region: pulumi.String(certificateRegion),
	}, pulumi.Parent(parent))
	if err != nil {
		return pulumi.StringOutput{}, err
	}

	sans := pulumi.StringArray{}
	for _, r := range d.Redirects {
		sans = append(sans, pulumi.String(r))
	}

	cert, err := acm.NewCertificate(ctx, name+"-cert", &acm.CertificateArgs{
		DomainName:              pulumi.String(d.Primary()),
		SubjectAlternativeNames: sans,
		ValidationMethod:        pulumi.String("DNS"),
	}, pulumi.Parent(parent), pulumi.Provider(provider))
	if err != nil {
		return pulumi.StringOutput{}, err
	}

	var fqdns pulumi.StringArray
	for i := range d.Hostnames() {
		opt := cert.DomainValidationOptions.Index(pulumi.Int(i))
		rec, err := route53.NewRecord(ctx, fmt.Sprintf("%s-cert-validation-%d", name, i), &route53.RecordArgs{
			ZoneId:         pulumi.String(zoneID),
			Name:           opt.ResourceRecordName().Elem(),
			Type:           opt.ResourceRecordType().Elem(),
			Records:        pulumi.StringArray{opt.ResourceRecordValue().Elem()},
			Ttl:            pulumi.Int(60),
			AllowOverwrite: pulumi.Bool(true),
		}, pulumi.Parent(parent))
		if err != nil {
			return pulumi.StringOutput{}, err
		}
		fqdns = append(fqdns, rec.Fqdn)
	}

	validation, err := acm.NewCertificateValidation(ctx, name+"-cert-validation", &acm.CertificateValidationArgs{
		CertificateArn:        cert.Arn,
		ValidationRecordFqdns: fqdns,
	}, pulumi.Parent(parent), pulumi.Provider(provider))
	if err != nil {
		return pulumi.StringOutput{}, err
	}
	return validation.CertificateArn, nil
}

// newAliasRecords points A and AAAA records for every hostname at the distribution.
func newAliasRecords(ctx *pulumi.Context, name string, hostnames []string, zoneID string, target, targetZone pulumi.StringOutput, parent pulumi.Resource) error {
	for i, h := range hostnames {
		for _, typ := range []string{"A", "AAAA"} {
			_, err := route53.NewRecord(ctx, fmt.Sprintf("%s-%s-%d", name, typ, i), &route53.RecordArgs{
				ZoneId: pulumi.String(zoneID),
				Name:   pulumi.String(h),
				Type:   pulumi.String(typ),
				Aliases: route53.RecordAliasArray{
					&route53.RecordAliasArgs{
						Name:                 target,
						ZoneId:               targetZone,
						EvaluateTargetHealth: pulumi.Bool(false),
					},
				},
				AllowOverwrite: pulumi.Bool(true),
			}, pulumi.Parent(parent))
			if err != nil {
				return err
			}
		}
	}
	return nil
}
