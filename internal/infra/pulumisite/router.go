package pulumisite

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"
)

// The viewer-request function sends redirect hostnames to the primary
// hostname and maps directory-style page URLs onto index.html. Requests under
// an asset route are passed through untouched.
var routerTmpl = template.Must(template.New("router").Funcs(template.FuncMap{
	"literal": jsLiteral,
}).Parse(`function handler(event) {
  var request = event.request;
  var host = request.headers.host ? request.headers.host.value : "";
  var redirects = {{literal .Redirects}};
  if (redirects.indexOf(host) !== -1) {
    return {
      statusCode: 301,
      statusDescription: "Moved Permanently",
      headers: { location: { value: "https://" + {{literal .Primary}} + request.uri + querystring(request.querystring) } }
    };
  }
  var assetRoutes = {{literal .AssetPrefixes}};
  for (var i = 0; i < assetRoutes.length; i++) {
    if (request.uri.startsWith(assetRoutes[i])) {
      return request;
    }
  }
  if (request.uri.endsWith("/")) {
    request.uri += "index.html";
  } else if (request.uri.split("/").pop().indexOf(".") === -1) {
    request.uri += "/index.html";
  }
  return request;
}

function querystring(qs) {
  var parts = [];
  for (var key in qs) {
    var v = qs[key];
    if (v.multiValue) {
      for (var j = 0; j < v.multiValue.length; j++) {
        parts.push(key + "=" + v.multiValue[j].value);
      }
    } else {
      parts.push(v.value === "" ? key : key + "=" + v.value);
    }
  }
  return parts.length ? "?" + parts.join("&") : "";
}
`))

type routerParams struct {
	Primary       string
	Redirects     []string
	AssetPrefixes []string
}

// routerCode renders the CloudFront function source. primary may be empty
// when the site has no custom domain; redirects are then ignored.
func routerCode(primary string, redirects, assetRoutes []string) (string, error) {
	p := routerParams{
		Primary:       primary,
		Redirects:     []string{},
		AssetPrefixes: make([]string, 0, len(assetRoutes)),
	}
	if primary != "" {
		p.Redirects = append(p.Redirects, redirects...)
	}
	for _, r := range assetRoutes {
		r = strings.Trim(r, "/")
		if r == "" {
			continue
		}
		p.AssetPrefixes = append(p.AssetPrefixes, "/"+r+"/")
	}

	var buf bytes.Buffer
	if err := routerTmpl.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// jsLiteral encodes v as JSON, which is also a valid JavaScript literal.
func jsLiteral(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
