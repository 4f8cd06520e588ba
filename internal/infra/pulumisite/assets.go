package pulumisite

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/moaiedu/staticsite/internal/domain"
)

const (
	cacheNoStore   = "max-age=0,no-cache,no-store,must-revalidate"
	cacheRevalid   = "public,max-age=0,must-revalidate"
	cacheImmutable = "public,max-age=31536000,immutable"
)

type assetFile struct {
	Key          string
	Path         string
	ContentType  string
	CacheControl string
}

// collectAssets lists every regular file under dir with its object key and headers.
// Keys use forward slashes and are sorted so resource names stay stable between runs.
// A directory without files is an error.
func collectAssets(dir string, routes domain.AssetRoutingSpec) ([]assetFile, error) {
	var files []assetFile
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		files = append(files, assetFile{
			Key:          key,
			Path:         p,
			ContentType:  contentType(key),
			CacheControl: cacheControl(key, routes),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	// An empty upload set would make the stack delete every published object.
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to upload in %s", dir)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

func contentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if isPage(key) {
		return "text/html; charset=utf-8"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func isPage(key string) bool {
	ext := strings.ToLower(path.Ext(key))
	return ext == ".html" || ext == ".htm"
}

// cacheControl: pages are never cached, uploads are revalidated, and every
// other build artifact is treated as immutable.
func cacheControl(key string, routes domain.AssetRoutingSpec) string {
	switch {
	case isPage(key):
		return cacheNoStore
	case routes.IsAssetPath(key):
		return cacheRevalid
	default:
		return cacheImmutable
	}
}

// bucketPolicy grants read access on bucketArn to the CloudFront distribution distArn only.
func bucketPolicy(bucketArn, distArn string) (string, error) {
	doc := map[string]any{
		"Version": "2012-10-17",
		"Statement": []map[string]any{
			{
				"Sid":       "AllowCloudFrontRead",
				"Effect":    "Allow",
				"Principal": map[string]any{"Service": "cloudfront.amazonaws.com"},
				"Action":    "s3:GetObject",
				"Resource":  bucketArn + "/*",
				"Condition": map[string]any{
					"StringEquals": map[string]any{"AWS:SourceArn": distArn},
				},
			},
		},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
