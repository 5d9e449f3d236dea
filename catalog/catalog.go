// Package catalog loads the list of downloadable release artifacts.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("artifact not found")

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Slugs that collide with fixed routes under /downloads.
var reservedSlugs = map[string]bool{"stats": true}

// Artifact is one entry of the downloads page. Key names an object in the
// download bucket; URL is used as-is when the artifact lives elsewhere.
type Artifact struct {
	Slug        string `yaml:"slug" json:"slug"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Key         string `yaml:"key,omitempty" json:"-"`
	URL         string `yaml:"url,omitempty" json:"-"`
}

type Catalog struct {
	artifacts []Artifact
	bySlug    map[string]int
}

type file struct {
	Artifacts []Artifact `yaml:"artifacts"`
}

// Load reads a catalog file. A missing file yields an empty catalog and an
// error wrapping os.ErrNotExist so callers can decide whether it matters.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return New(nil), fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Catalog, error) {
	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, a := range doc.Artifacts {
		if !slugPattern.MatchString(a.Slug) {
			return nil, fmt.Errorf("artifact %d: invalid slug %q", i, a.Slug)
		}
		if reservedSlugs[a.Slug] {
			return nil, fmt.Errorf("artifact %d: slug %q is reserved", i, a.Slug)
		}
		if (a.Key == "") == (a.URL == "") {
			return nil, fmt.Errorf("artifact %q: exactly one of key and url must be set", a.Slug)
		}
		if a.Title == "" {
			doc.Artifacts[i].Title = a.Slug
		}
	}
	c := New(doc.Artifacts)
	if len(c.bySlug) != len(doc.Artifacts) {
		return nil, errors.New("catalog: duplicate artifact slug")
	}
	return c, nil
}

func New(artifacts []Artifact) *Catalog {
	c := &Catalog{artifacts: artifacts, bySlug: make(map[string]int, len(artifacts))}
	for i, a := range artifacts {
		c.bySlug[a.Slug] = i
	}
	return c
}

// All returns the artifacts in file order.
func (c *Catalog) All() []Artifact {
	return append([]Artifact(nil), c.artifacts...)
}

func (c *Catalog) Lookup(slug string) (Artifact, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return c.artifacts[i], nil
}
