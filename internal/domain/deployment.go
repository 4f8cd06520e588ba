package domain

import "time"

// Output names exported by the provisioning program.
const (
	OutputSiteURL    = "staticSiteUrl"
	OutputBucketName = "staticSiteS3BucketName"
)

// SiteOutputs are the values relayed unchanged from the provisioner to the caller.
// BucketName may be empty if the provisioner has not created the bucket yet.
type SiteOutputs struct {
	URL        string `json:"staticSiteUrl" yaml:"staticSiteUrl"`
	BucketName string `json:"staticSiteS3BucketName,omitempty" yaml:"staticSiteS3BucketName,omitempty"`
}

// BuildResult describes a successful build.
type BuildResult struct {
	OutputDir string        `json:"output_dir"`
	Files     int           `json:"files"`
	Duration  time.Duration `json:"duration"`
}

// Deployment is the record of one successful resolve, build and provision sequence.
type Deployment struct {
	ID string `json:"id,omitempty"`

	App    string        `json:"app"`
	Stage  Stage         `json:"stage"`
	Region string        `json:"region"`
	Domain *DomainConfig `json:"domain,omitempty"`

	Build   *BuildResult `json:"build,omitempty"`
	Outputs SiteOutputs  `json:"outputs"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// ProbeExpectation says what a verify probe should observe.
type ProbeExpectation string

const (
	ExpectOK       ProbeExpectation = "ok"
	ExpectRedirect ProbeExpectation = "redirect"
)

// ProbeSpec is one HTTP check against a deployed site.
type ProbeSpec struct {
	URL    string
	Expect ProbeExpectation
	// RedirectTo is the host a redirect must point at (ExpectRedirect only).
	RedirectTo string
}

// ProbeResult is the outcome of a ProbeSpec.
type ProbeResult struct {
	URL        string           `json:"url"`
	Expect     ProbeExpectation `json:"expect"`
	StatusCode int              `json:"status_code,omitempty"`
	Location   string           `json:"location,omitempty"`
	LatencyMS  int64            `json:"latency_ms"`
	Passed     bool             `json:"passed"`
	Message    string           `json:"message"`

	// Failure classifies transport errors (timeout, dns, tls, connection); empty when a response arrived.
	Failure string `json:"failure,omitempty"`
}

// ProbePlan lists the checks for a deployed site: the site URL must answer 2xx
// and each redirect hostname must redirect to the primary hostname.
func ProbePlan(out SiteOutputs, d *DomainConfig) []ProbeSpec {
	if out.URL == "" {
		return nil
	}
	plan := []ProbeSpec{{URL: out.URL, Expect: ExpectOK}}
	if d == nil {
		return plan
	}
	for _, r := range d.Redirects {
		plan = append(plan, ProbeSpec{
			URL:        "https://" + r + "/",
			Expect:     ExpectRedirect,
			RedirectTo: d.Primary(),
		})
	}
	return plan
}
