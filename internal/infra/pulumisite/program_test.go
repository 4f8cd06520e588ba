package pulumisite

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moaiedu/staticsite/internal/domain"
)

const (
	tBucket       = "aws:s3/bucketV2:BucketV2"
	tObject       = "aws:s3/bucketObjectv2:BucketObjectv2"
	tPolicy       = "aws:s3/bucketPolicy:BucketPolicy"
	tDistribution = "aws:cloudfront/distribution:Distribution"
	tFunction     = "aws:cloudfront/function:Function"
	tCertificate  = "aws:acm/certificate:Certificate"
	tRecord       = "aws:route53/record:Record"
)

type mocks struct {
	mu     sync.Mutex
	types  map[string]int
	inputs map[string]resource.PropertyMap
	calls  []string
}

func newMocks() *mocks {
	return &mocks{types: map[string]int{}, inputs: map[string]resource.PropertyMap{}}
}

func (m *mocks) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	m.mu.Lock()
	m.types[args.TypeToken]++
	m.inputs[args.Name] = args.Inputs
	m.mu.Unlock()

	state := args.Inputs.Copy()
	switch args.TypeToken {
	case tBucket:
		state["bucket"] = resource.NewStringProperty(args.Name)
		state["arn"] = resource.NewStringProperty("arn:aws:s3:::" + args.Name)
		state["bucketRegionalDomainName"] = resource.NewStringProperty(args.Name + ".s3.eu-west-1.amazonaws.com")
	case tDistribution:
		state["arn"] = resource.NewStringProperty("arn:aws:cloudfront::123456789012:distribution/E123")
		state["domainName"] = resource.NewStringProperty("d123.cloudfront.net")
		state["hostedZoneId"] = resource.NewStringProperty("Z2FDTNDATAQYW2")
	case tFunction:
		state["arn"] = resource.NewStringProperty("arn:aws:cloudfront::123456789012:function/" + args.Name)
	case tCertificate:
		state["arn"] = resource.NewStringProperty("arn:aws:acm:us-east-1:123456789012:certificate/abc")
		names := []string{args.Inputs["domainName"].StringValue()}
		if sans, ok := args.Inputs["subjectAlternativeNames"]; ok && sans.IsArray() {
			for _, v := range sans.ArrayValue() {
				names = append(names, v.StringValue())
			}
		}
		var opts []interface{}
		for _, n := range names {
			opts = append(opts, map[string]interface{}{
				"domainName":          n,
				"resourceRecordName":  "_x." + n + ".",
				"resourceRecordType":  "CNAME",
				"resourceRecordValue": "_y.acm-validations.aws.",
			})
		}
		state["domainValidationOptions"] = resource.NewPropertyValue(opts)
	case tRecord:
		if n, ok := args.Inputs["name"]; ok && n.IsString() {
			state["fqdn"] = resource.NewStringProperty(n.StringValue())
		}
	}
	return args.Name + "_id", state, nil
}

func (m *mocks) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	m.mu.Lock()
	m.calls = append(m.calls, args.Token)
	m.mu.Unlock()

	if args.Token == "aws:route53/getZone:getZone" {
		return resource.PropertyMap{
			"zoneId": resource.NewStringProperty("Z0ZONE"),
			"name":   args.Args["name"],
		}, nil
	}
	return resource.PropertyMap{}, nil
}

func (m *mocks) count(token string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.types[token]
}

func (m *mocks) input(name, key string) resource.PropertyValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs[name][resource.PropertyKey(key)]
}

type siteValues struct {
	url    string
	bucket string
}

func runSite(t *testing.T, m *mocks, args *StaticSiteArgs) siteValues {
	t.Helper()

	var got siteValues
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		site, err := NewStaticSite(ctx, "StaticSite", args)
		if err != nil {
			return err
		}

		var wg sync.WaitGroup
		wg.Add(1)
		pulumi.All(site.URL, site.BucketName).ApplyT(func(xs []interface{}) error {
			defer wg.Done()
			got.url = xs[0].(string)
			got.bucket = xs[1].(string)
			return nil
		})
		wg.Wait()
		return nil
	}, pulumi.WithMocks("staticsite", "dev", m))
	require.NoError(t, err)
	return got
}

func TestStaticSiteWithApexDomain(t *testing.T) {
	dir := writeSite(t)
	m := newMocks()

	got := runSite(t, m, &StaticSiteArgs{
		OutputDir:   dir,
		ErrorPage:   "404.html",
		AssetRoutes: []string{"uploads"},
		Domain: &domain.DomainConfig{
			Kind:      domain.DomainApex,
			Name:      "example.com",
			Redirects: []string{"www.example.com"},
		},
		HostedZone: "example.com",
	})

	assert.Equal(t, "https://example.com", got.url)
	assert.Equal(t, "StaticSite-bucket", got.bucket)

	assert.Equal(t, 1, m.count(tBucket))
	assert.Equal(t, 5, m.count(tObject))
	assert.Equal(t, 1, m.count(tPolicy))
	assert.Equal(t, 1, m.count(tDistribution))
	assert.Equal(t, 1, m.count(tCertificate))
	// two validation records plus A and AAAA for both hostnames
	assert.Equal(t, 6, m.count(tRecord))
	assert.Contains(t, m.calls, "aws:route53/getZone:getZone")

	aliases := m.input("StaticSite-cdn", "aliases")
	require.True(t, aliases.IsArray())
	var hosts []string
	for _, v := range aliases.ArrayValue() {
		hosts = append(hosts, v.StringValue())
	}
	assert.Equal(t, []string{"example.com", "www.example.com"}, hosts)

	code := m.input("StaticSite-router", "code").StringValue()
	assert.Contains(t, code, `["www.example.com"]`)
	assert.Contains(t, code, `["/uploads/"]`)

	policy := m.input("StaticSite-bucket-policy", "policy")
	require.True(t, policy.IsString())
	assert.Contains(t, policy.StringValue(), "distribution/E123")

	assert.Equal(t, "Z0ZONE", m.input("StaticSite-A-0", "zoneId").StringValue())
}

func TestStaticSiteWithoutDomain(t *testing.T) {
	dir := writeSite(t)
	m := newMocks()

	got := runSite(t, m, &StaticSiteArgs{
		OutputDir:   dir,
		ErrorPage:   "404.html",
		AssetRoutes: []string{"uploads"},
	})

	assert.Equal(t, "https://d123.cloudfront.net", got.url)
	assert.Equal(t, 0, m.count(tCertificate))
	assert.Equal(t, 0, m.count(tRecord))
	assert.NotContains(t, m.calls, "aws:route53/getZone:getZone")

	cert := m.input("StaticSite-cdn", "viewerCertificate")
	require.True(t, cert.IsObject())
	assert.True(t, cert.ObjectValue()["cloudfrontDefaultCertificate"].BoolValue())
}

func TestStaticSiteMissingOutputDir(t *testing.T) {
	m := newMocks()
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		_, err := NewStaticSite(ctx, "StaticSite", &StaticSiteArgs{OutputDir: t.TempDir() + "/missing"})
		return err
	}, pulumi.WithMocks("staticsite", "dev", m))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestProgramRuns(t *testing.T) {
	dir := writeSite(t)
	m := newMocks()

	site := domain.SiteConfig{
		App:       "MoaiEdu-StaticSite",
		Stage:     "dev",
		Region:    "eu-west-1",
		ErrorPage: "404.html",
		Assets:    domain.AssetRoutingSpec{Routes: []string{"uploads"}},
		Domain:    &domain.DomainConfig{Kind: domain.DomainSubdomain, Name: "dev-www.example.com"},
		Removal:   domain.RemovalRetain,
	}
	site.HostedZone = "example.com"

	err := pulumi.RunErr(Program(site, dir), pulumi.WithMocks("staticsite", "dev", m))
	require.NoError(t, err)
	assert.Equal(t, 1, m.count(tDistribution))
	// one validation record plus A and AAAA
	assert.Equal(t, 3, m.count(tRecord))
	assert.False(t, m.input("StaticSite-bucket", "forceDestroy").BoolValue())
}

func TestDecodeOutputs(t *testing.T) {
	out := decodeOutputs(auto.OutputMap{
		domain.OutputSiteURL:    {Value: "https://example.com"},
		domain.OutputBucketName: {Value: "site-bucket"},
		"unrelated":             {Value: 42},
	})
	assert.Equal(t, domain.SiteOutputs{URL: "https://example.com", BucketName: "site-bucket"}, out)

	partial := decodeOutputs(auto.OutputMap{domain.OutputSiteURL: {Value: "https://d1.cloudfront.net"}})
	assert.Equal(t, "", partial.BucketName)
}

func TestProjectName(t *testing.T) {
	cases := map[string]string{
		"MoaiEdu-StaticSite": "MoaiEdu-StaticSite",
		"my site/v2":         "my-site-v2",
		"  ":                 "staticsite",
		"..":                 "staticsite",
	}
	for in, want := range cases {
		assert.Equal(t, want, ProjectName(in), fmt.Sprintf("ProjectName(%q)", in))
	}
}

func TestPhysicalName(t *testing.T) {
	assert.Equal(t, "proj-dev-StaticSite", physicalName("proj-dev-StaticSite"))
	long := physicalName(strings.Repeat("a", 80) + ".b")
	assert.Len(t, long, 64)
}
