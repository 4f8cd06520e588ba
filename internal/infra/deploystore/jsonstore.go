package deploystore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/ports"
)

const (
	defaultDeploymentsDir = ".staticsite/deployments"
	indexFile             = "index.jsonl"

	// Fixed width, so file names still sort chronologically.
	recordTimeLayout = "20060102T150405.000000000Z"
)

type JSONStore struct {
	rootDir    string
	dirName    string
	writeIndex bool
	now        func() time.Time
}

type Option func(*JSONStore)

// WithIndex toggles the JSONL index: <deployments_dir>/index.jsonl (on by default).
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	dir := cfg.Paths.DeploymentsDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultDeploymentsDir
	}

	s := &JSONStore{
		rootDir:    root,
		dirName:    dir,
		writeIndex: true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.DeploymentStore = (*JSONStore)(nil)

func (s *JSONStore) dir() string {
	return filepath.Join(s.rootDir, filepath.FromSlash(s.dirName))
}

func (s *JSONStore) SaveDeployment(d domain.Deployment) (string, error) {
	dir := s.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "deploystore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := d.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := d
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = ts
	}

	slug := slugify(string(d.Stage))
	if slug == "" {
		slug = "deploy"
	}

	filename, path := freeRecordName(dir, ts, slug)
	id := strings.TrimSuffix(filename, ".json")
	toSave.ID = id

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "deploystore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", &domain.OpError{
			Op:   "deploystore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "deploystore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, id, filename, toSave)
	}

	return id, nil
}

// freeRecordName returns the first unused record name at or after ts.
// Records started in the same nanosecond get the next free one.
func freeRecordName(dir string, ts time.Time, slug string) (string, string) {
	for {
		filename := fmt.Sprintf("%s_%s.json", ts.Format(recordTimeLayout), slug)
		path := filepath.Join(dir, filename)
		if _, err := os.Lstat(path); err != nil {
			return filename, path
		}
		ts = ts.Add(time.Nanosecond)
	}
}

type indexEntry struct {
	ID        string       `json:"id"`
	File      string       `json:"file"`
	Stage     domain.Stage `json:"stage"`
	URL       string       `json:"url"`
	StartedAt time.Time    `json:"started_at"`
}

func (s *JSONStore) appendIndex(dir, id, filename string, d domain.Deployment) error {
	line, err := json.Marshal(indexEntry{
		ID:        id,
		File:      filename,
		Stage:     d.Stage,
		URL:       d.Outputs.URL,
		StartedAt: d.StartedAt,
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, indexFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// LatestDeployment returns the most recent record for stage. The index is
// consulted first; without one the directory listing is used.
func (s *JSONStore) LatestDeployment(stage domain.Stage) (domain.Deployment, error) {
	const op = "deploystore.latest"
	dir := s.dir()

	file, err := s.latestFromIndex(dir, stage)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.Deployment{}, &domain.OpError{Op: op, Kind: domain.KindExecution, Path: filepath.Join(dir, indexFile), Err: err}
	}
	if file == "" {
		file, err = latestFromListing(dir, stage)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return domain.Deployment{}, &domain.OpError{Op: op, Kind: domain.KindExecution, Path: dir, Err: err}
		}
	}
	if file == "" {
		return domain.Deployment{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  fmt.Errorf("no deployment recorded for stage %s: %w", stage, domain.ErrNotFound),
		}
	}

	path := filepath.Join(dir, file)
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Deployment{}, &domain.OpError{Op: op, Kind: domain.KindExecution, Path: path, Err: err}
	}
	var d domain.Deployment
	if err := json.Unmarshal(b, &d); err != nil {
		return domain.Deployment{}, &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: path, Err: err}
	}
	return d, nil
}

func (s *JSONStore) latestFromIndex(dir string, stage domain.Stage) (string, error) {
	f, err := os.Open(filepath.Join(dir, indexFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	var file string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e indexEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			// a torn line from an interrupted append
			continue
		}
		if e.Stage == stage {
			file = e.File
		}
	}
	return file, sc.Err()
}

// File names start with a UTC timestamp, so lexical order is chronological.
func latestFromListing(dir string, stage domain.Stage) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	suffix := "_" + slugify(string(stage)) + ".json"

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	sort.Strings(names)
	return names[len(names)-1], nil
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
