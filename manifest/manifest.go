// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest loads eagle.yaml project manifests.
//
// A manifest names the source files that are compiled together as a
// single submission, and the options for running them:
//
//	name: hello
//	sources:
//	  - lib.eg
//	  - main.eg
//	script: false
//	output: json
//
// Source paths are relative to the directory containing the manifest.
package manifest // import "go.eaglelang.org/manifest"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Filename is the conventional name of a manifest file.
const Filename = "eagle.yaml"

// A Manifest is the validated contents of a manifest file.
type Manifest struct {
	Path    string   // absolute path of the manifest file
	Name    string   // project name
	Sources []string // absolute paths of the source files, in order
	Script  bool     // compile in script mode
	Output  string   // "text" or "json"
}

// file is the on-disk form of a manifest.
type file struct {
	Name    string   `yaml:"name"`
	Sources []string `yaml:"sources"`
	Script  bool     `yaml:"script"`
	Output  string   `yaml:"output"`
}

// A ValidationError lists the problems found in a manifest.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "manifest %s is invalid:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	defer f.Close()
	return decode(abs, f)
}

// decode parses a manifest from r; path is the manifest's absolute
// file name, against which source paths are resolved.
func decode(path string, r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw file
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", path)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	m := &Manifest{
		Path:   path,
		Name:   strings.TrimSpace(raw.Name),
		Script: raw.Script,
		Output: raw.Output,
	}
	if m.Output == "" {
		m.Output = "text"
	}
	dir := filepath.Dir(path)
	for _, src := range raw.Sources {
		if src != "" && !filepath.IsAbs(src) {
			src = filepath.Join(dir, src)
		}
		m.Sources = append(m.Sources, src)
	}
	if err := m.validate(raw); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) validate(raw file) error {
	errs := &ValidationError{Path: m.Path}
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if len(raw.Sources) == 0 {
		errs.Issues = append(errs.Issues, "sources must list at least one file")
	}
	seen := make(map[string]bool)
	for i, src := range raw.Sources {
		switch {
		case src == "":
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources[%d] must be a non-empty path", i))
		case seen[m.Sources[i]]:
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources[%d] %q is listed twice", i, src))
		}
		seen[m.Sources[i]] = true
	}
	switch m.Output {
	case "text", "json":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("output %q must be text or json", m.Output))
	}
	if len(errs.Issues) > 0 {
		return errs
	}
	return nil
}
