package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Class is one generated class and its properties, in declaration order.
type Class struct {
	Name       string   `yaml:"name" json:"name"`
	Properties []string `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// Output represents one generated file in the manifest.
type Output struct {
	Source  string  `yaml:"source" json:"source"`
	File    string  `yaml:"file" json:"file"`
	Package string  `yaml:"package,omitempty" json:"package,omitempty"`
	SHA256  string  `yaml:"sha256" json:"sha256"`
	Classes []Class `yaml:"classes,omitempty" json:"classes,omitempty"`
}

// Manifest tracks the files the generator has written.
type Manifest struct {
	Generator string   `yaml:"generator" json:"generator"`
	Outputs   []Output `yaml:"outputs" json:"outputs"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// Record adds or replaces the entry for o.Source. Outputs stay sorted by
// source so the file does not churn between runs.
func (m *Manifest) Record(o Output) {
	i := sort.Search(len(m.Outputs), func(i int) bool { return m.Outputs[i].Source >= o.Source })
	if i < len(m.Outputs) && m.Outputs[i].Source == o.Source {
		m.Outputs[i] = o
		return
	}
	m.Outputs = append(m.Outputs, Output{})
	copy(m.Outputs[i+1:], m.Outputs[i:])
	m.Outputs[i] = o
}

// Lookup returns the entry recorded for source.
func (m *Manifest) Lookup(source string) (Output, bool) {
	for _, o := range m.Outputs {
		if o.Source == source {
			return o, true
		}
	}
	return Output{}, false
}

// Remove drops the entry for source and reports whether there was one.
func (m *Manifest) Remove(source string) bool {
	for i, o := range m.Outputs {
		if o.Source == source {
			m.Outputs = append(m.Outputs[:i], m.Outputs[i+1:]...)
			return true
		}
	}
	return false
}

// ClassCount is the number of classes across all outputs.
func (m *Manifest) ClassCount() int {
	n := 0
	for _, o := range m.Outputs {
		n += len(o.Classes)
	}
	return n
}

// Sum is the checksum recorded for generated content.
func Sum(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

// Modified reports whether the file recorded in o no longer has the
// recorded checksum. A missing file counts as modified.
func (o Output) Modified(base string) (bool, error) {
	path := o.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return Sum(data) != o.SHA256, nil
}

// Rel makes path relative to the directory of the manifest at manifestPath,
// the form paths are recorded in. Paths that cannot be made relative are
// returned as they are.
func Rel(manifestPath, path string) string {
	r, err := filepath.Rel(filepath.Dir(manifestPath), path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(r)
}

// Abs resolves a recorded path against the manifest at manifestPath.
func Abs(manifestPath, recorded string) string {
	if filepath.IsAbs(recorded) {
		return recorded
	}
	return filepath.Join(filepath.Dir(manifestPath), filepath.FromSlash(recorded))
}
