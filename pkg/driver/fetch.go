package driver

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// FetchSpec selects a revision of a git repository. At most one of Rev, Tag
// and Branch should be set; with none, the remote HEAD is used.
type FetchSpec struct {
	URL    string
	Rev    string
	Tag    string
	Branch string
}

// Checkout describes a fetched project on disk.
type Checkout struct {
	Name    string
	Version string
	Commit  string
	Dir     string
	// Manifest is nil when the repository has no caesar.yml.
	Manifest *Manifest
}

// Fetcher clones projects into <home>/projects/<name>/<version>.
type Fetcher struct {
	home string
}

func NewFetcher(home string) *Fetcher {
	return &Fetcher{home: home}
}

// ProjectsDir is the root of the project cache.
func (f *Fetcher) ProjectsDir() string {
	return filepath.Join(f.home, "projects")
}

// Fetch clones spec.URL (or reuses an existing checkout of the same pinned
// version) and loads its manifest when present.
func (f *Fetcher) Fetch(spec FetchSpec) (*Checkout, error) {
	if f == nil || f.home == "" {
		return nil, errors.New("fetch: cache directory unavailable")
	}
	url := strings.TrimSpace(spec.URL)
	if url == "" {
		return nil, errors.New("fetch: git URL required")
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	name := projectNameFromURL(url)
	baseDir := filepath.Join(f.ProjectsDir(), name)
	version, commit, err := ensureGitCheckout(baseDir, url, spec)
	if err != nil {
		return nil, err
	}

	checkout := &Checkout{
		Name:    name,
		Version: version,
		Commit:  commit,
		Dir:     filepath.Join(baseDir, sanitizePathSegment(version)),
	}
	manifestPath := filepath.Join(checkout.Dir, ManifestFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		manifest, err := LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		checkout.Manifest = manifest
	}
	return checkout, nil
}

func (s FetchSpec) validate() error {
	set := 0
	for _, v := range []string{s.Rev, s.Tag, s.Branch} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set > 1 {
		return errors.New("fetch: specify at most one of rev, tag, or branch")
	}
	return nil
}

func ensureGitCheckout(baseDir, url string, spec FetchSpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor := gitRevisionFromSpec(spec)

	explicitRev := strings.TrimSpace(spec.Rev)
	if explicitRev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(explicitRev))
		if _, err := os.Stat(existing); err == nil {
			return explicitRev, explicitRev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL: url,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil && strings.TrimSpace(spec.Branch) != "" {
		// Clones only create the default branch locally.
		hash, err = repo.ResolveRevision(plumbing.Revision("refs/remotes/origin/" + strings.TrimSpace(spec.Branch)))
	}
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

func gitRevisionFromSpec(spec FetchSpec) (plumbing.Revision, string) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch
	}
	return plumbing.Revision(plumbing.HEAD), ""
}

// projectNameFromURL takes the last path element of a clone URL, without a
// trailing ".git".
func projectNameFromURL(url string) string {
	trimmed := strings.TrimRight(filepath.ToSlash(strings.TrimSpace(url)), "/")
	base := path.Base(trimmed)
	base = strings.TrimSuffix(base, ".git")
	return sanitizePathSegment(base)
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" || segment == "." || segment == ".." {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
