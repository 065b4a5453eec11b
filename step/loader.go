package step

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/goap/state"
)

// CatalogFile is the on-disk form of a step catalog (catalog.yaml).
// It declares step blueprints only; runtime actions and guards are
// bound in code afterwards with Catalog.BindRuntime, which keeps the
// catalog's planning-visible contents auditable in one file.
type CatalogFile struct {
	Steps []StepDef `yaml:"steps"`
}

// StepDef declares a single step blueprint.
type StepDef struct {
	Name          string            `yaml:"name"`
	Cost          *float64          `yaml:"cost,omitempty"`
	Preconditions []PreconditionDef `yaml:"preconditions,omitempty"`
	Effects       []EffectDef       `yaml:"effects,omitempty"`
}

// PreconditionDef declares one precondition. Exactly one of Equals or
// AtLeast must be set.
type PreconditionDef struct {
	Key     string `yaml:"key"`
	Equals  *bool  `yaml:"equals,omitempty"`
	AtLeast *int   `yaml:"at_least,omitempty"`
}

// EffectDef declares one effect. Exactly one of Set, SetCount, or Add
// must be set.
type EffectDef struct {
	Key      string `yaml:"key"`
	Set      *bool  `yaml:"set,omitempty"`
	SetCount *int   `yaml:"set_count,omitempty"`
	Add      *int   `yaml:"add,omitempty"`
}

// LoadCatalog reads a catalog definition file and returns a populated
// catalog. If path is a directory, it looks for catalog.yaml or
// catalog.yml in that directory.
func LoadCatalog(path string) (*Catalog, error) {
	configPath, err := resolveCatalogPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return file.Build()
}

// Build converts the parsed definitions into a validated catalog.
func (f *CatalogFile) Build() (*Catalog, error) {
	catalog := NewCatalog()
	for i, def := range f.Steps {
		s, err := def.build()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if err := catalog.Register(s); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func (d StepDef) build() (*Step, error) {
	b := New(d.Name)
	if d.Cost != nil {
		b.WithCost(*d.Cost)
	}

	for _, p := range d.Preconditions {
		switch {
		case p.Equals != nil && p.AtLeast != nil:
			return nil, fmt.Errorf("step %q: precondition %q sets both equals and at_least", d.Name, p.Key)
		case p.Equals != nil:
			b.RequireBool(state.Key(p.Key), *p.Equals)
		case p.AtLeast != nil:
			b.RequireAtLeast(state.Key(p.Key), *p.AtLeast)
		default:
			return nil, fmt.Errorf("step %q: precondition %q sets neither equals nor at_least", d.Name, p.Key)
		}
	}

	for _, e := range d.Effects {
		set := 0
		if e.Set != nil {
			set++
		}
		if e.SetCount != nil {
			set++
		}
		if e.Add != nil {
			set++
		}
		if set != 1 {
			return nil, fmt.Errorf("step %q: effect %q must set exactly one of set, set_count, add", d.Name, e.Key)
		}
		switch {
		case e.Set != nil:
			b.SetBool(state.Key(e.Key), *e.Set)
		case e.SetCount != nil:
			b.SetInt(state.Key(e.Key), *e.SetCount)
		case e.Add != nil:
			b.AddInt(state.Key(e.Key), *e.Add)
		}
	}

	return b.Build()
}

// resolveCatalogPath accepts either a file path or a directory
// containing catalog.yaml / catalog.yml.
func resolveCatalogPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	for _, name := range []string{"catalog.yaml", "catalog.yml"} {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no catalog.yaml or catalog.yml found in %s", path)
}
