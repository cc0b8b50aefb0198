package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project file the CLI looks for.
const ManifestFileName = "caesar.yml"

// Manifest represents the parsed contents of caesar.yml.
type Manifest struct {
	Path        string
	Name        string
	Version     string
	License     string
	Authors     []string
	Default     string
	Targets     map[string]*TargetSpec
	TargetOrder []string

	targetEntries []manifestTargetEntry
}

// TargetSpec names a runnable script of the project.
type TargetSpec struct {
	Name         string
	OriginalName string
	Main         string
}

type manifestTargetEntry struct {
	sanitized string
	spec      *TargetSpec
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses caesar.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Version != "" && !versionPattern.MatchString(m.Version) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("invalid version %q", m.Version))
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}

	targetNames := make(map[string]string, len(m.targetEntries))
	for _, entry := range m.targetEntries {
		target := entry.spec
		if target == nil {
			continue
		}
		if other, exists := targetNames[entry.sanitized]; exists {
			errs.Issues = append(errs.Issues, fmt.Sprintf("targets %q and %q collide after sanitization", other, target.OriginalName))
		} else {
			targetNames[entry.sanitized] = target.OriginalName
		}
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main script", target.OriginalName))
		}
	}

	if m.Default != "" {
		if _, ok := m.FindTarget(m.Default); !ok {
			errs.Issues = append(errs.Issues, fmt.Sprintf("default target %q is not defined", m.Default))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var ErrNoTargets = errors.New("manifest: no targets defined")

// DefaultTarget returns the target named by default, else the first target in
// manifest order.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if m == nil {
		return nil, ErrNoTargets
	}
	if m.Default != "" {
		if target, ok := m.FindTarget(m.Default); ok {
			return target, nil
		}
	}
	for _, entry := range m.targetEntries {
		if entry.spec != nil {
			return entry.spec, nil
		}
	}
	return nil, ErrNoTargets
}

// FindTarget looks up a target by sanitized or original name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	key := sanitizeSegment(name)
	if key != "" {
		if target, ok := m.Targets[key]; ok && target != nil {
			return target, true
		}
	}
	for _, entry := range m.targetEntries {
		if entry.spec == nil {
			continue
		}
		if strings.EqualFold(entry.spec.OriginalName, strings.TrimSpace(name)) {
			return entry.spec, true
		}
	}
	return nil, false
}

// MainPath resolves a target's script relative to the manifest directory.
func (m *Manifest) MainPath(target *TargetSpec) (string, error) {
	if target == nil || target.Main == "" {
		return "", fmt.Errorf("manifest: target has no main script")
	}
	if filepath.IsAbs(target.Main) {
		return filepath.Clean(target.Main), nil
	}
	return filepath.Join(filepath.Dir(m.Path), filepath.FromSlash(target.Main)), nil
}

var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+){0,2}([0-9A-Za-z\-\+\.]*)?$`)

// sanitizeSegment turns a project or target name into an identifier-safe key.
func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}

type manifestFile struct {
	Name    string     `yaml:"name"`
	Version string     `yaml:"version"`
	License string     `yaml:"license"`
	Authors stringList `yaml:"authors"`
	Default string     `yaml:"default"`
	Targets targetMap  `yaml:"targets"`
}

type targetYAML struct {
	Main string `yaml:"main"`
}

// targetMap keeps targets in file order, which decides the default target.
type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	spec *targetYAML
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: targets must not use empty keys")
		}
		entry := new(targetYAML)
		switch valueNode.Kind {
		case yaml.ScalarNode:
			// Shorthand: "name: path/to/main.csr".
			entry.Main = valueNode.Value
		default:
			if err := valueNode.Decode(entry); err != nil {
				return fmt.Errorf("manifest: target %q: %w", key, err)
			}
		}
		items = append(items, targetMapEntry{name: key, spec: entry})
	}
	tm.items = items
	return nil
}

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	targetCapacity := len(mf.Targets.items)
	result := &Manifest{
		Path:          path,
		Name:          sanitizeSegment(mf.Name),
		Version:       strings.TrimSpace(mf.Version),
		License:       strings.TrimSpace(mf.License),
		Authors:       mf.Authors.Clone(),
		Default:       strings.TrimSpace(mf.Default),
		Targets:       make(map[string]*TargetSpec, targetCapacity),
		TargetOrder:   make([]string, 0, targetCapacity),
		targetEntries: make([]manifestTargetEntry, 0, targetCapacity),
	}

	for _, item := range mf.Targets.items {
		if item.spec == nil {
			continue
		}
		original := strings.TrimSpace(item.name)
		sanitized := sanitizeSegment(original)
		spec := &TargetSpec{
			Name:         sanitized,
			OriginalName: original,
			Main:         strings.TrimSpace(item.spec.Main),
		}
		if _, exists := result.Targets[sanitized]; !exists {
			result.Targets[sanitized] = spec
			result.TargetOrder = append(result.TargetOrder, sanitized)
		}
		result.targetEntries = append(result.targetEntries, manifestTargetEntry{
			sanitized: sanitized,
			spec:      spec,
		})
	}
	return result
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, strings.TrimSpace(str))
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}
