// Package casestudy loads case-study definitions from YAML files.
package casestudy

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gotreat/domain/casestudy"

	"gopkg.in/yaml.v3"
)

// Load decodes and validates one case study. Unknown keys are rejected so
// typos in field names do not silently drop data.
func Load(r io.Reader) (*casestudy.CaseStudy, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cs casestudy.CaseStudy
	if err := dec.Decode(&cs); err != nil {
		return nil, fmt.Errorf("parsing case study: %w", err)
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return &cs, nil
}

// LoadFromFile loads a case study from a YAML file.
func LoadFromFile(path string) (*casestudy.CaseStudy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case study file: %w", err)
	}
	cs, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cs, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, keyed by case study name.
func LoadDir(dir string) (map[string]*casestudy.CaseStudy, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	out := make(map[string]*casestudy.CaseStudy, len(paths))
	for _, p := range paths {
		cs, err := LoadFromFile(p)
		if err != nil {
			return nil, err
		}
		if _, dup := out[cs.Name]; dup {
			return nil, fmt.Errorf("duplicate case study name %q in %s", cs.Name, filepath.Base(p))
		}
		out[cs.Name] = cs
	}
	return out, nil
}

// Encode writes cs as YAML.
func Encode(w io.Writer, cs *casestudy.CaseStudy) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cs); err != nil {
		return fmt.Errorf("encoding case study: %w", err)
	}
	return enc.Close()
}
