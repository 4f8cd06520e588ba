package pulumisite

import (
	"strings"
	"testing"
)

func TestRouterCode_WithRedirects(t *testing.T) {
	code, err := routerCode("example.com", []string{"www.example.com"}, []string{"uploads", "/media/"})
	if err != nil {
		t.Fatalf("routerCode error: %v", err)
	}

	for _, want := range []string{
		`var redirects = ["www.example.com"];`,
		`"https://" + "example.com" + request.uri`,
		`var assetRoutes = ["/uploads/","/media/"];`,
		`statusCode: 301`,
	} {
		if !strings.Contains(code, want) {
			t.Fatalf("expected %q in router code:\n%s", want, code)
		}
	}
}

func TestRouterCode_WithoutDomain(t *testing.T) {
	code, err := routerCode("", []string{"www.example.com"}, nil)
	if err != nil {
		t.Fatalf("routerCode error: %v", err)
	}
	if !strings.Contains(code, `var redirects = [];`) {
		t.Fatalf("expected no redirects without a primary host:\n%s", code)
	}
	if !strings.Contains(code, `var assetRoutes = [];`) {
		t.Fatalf("expected empty asset routes:\n%s", code)
	}
}

func TestRouterCode_EscapesHostnames(t *testing.T) {
	code, err := routerCode(`ex"ample.com`, nil, nil)
	if err != nil {
		t.Fatalf("routerCode error: %v", err)
	}
	if !strings.Contains(code, `"ex\"ample.com"`) {
		t.Fatalf("expected escaped literal:\n%s", code)
	}
}
