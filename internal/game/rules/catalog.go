package rules

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/gusheet/internal/game/inventory"
)

type keyed interface {
	key() string
	Validate() error
}

// registry indexes definitions by id and keeps registration order.
type registry[T keyed] struct {
	kind  string
	byID  map[string]T
	order []T
}

func newRegistry[T keyed](kind string) registry[T] {
	return registry[T]{kind: kind, byID: make(map[string]T)}
}

func (r *registry[T]) add(v T) error {
	if _, exists := r.byID[v.key()]; exists {
		return fmt.Errorf("rules: %s ID %q already registered", r.kind, v.key())
	}
	r.byID[v.key()] = v
	r.order = append(r.order, v)
	return nil
}

func (r *registry[T]) get(id string) (T, bool) {
	v, ok := r.byID[id]
	return v, ok
}

func (r *registry[T]) all() []T {
	out := make([]T, len(r.order))
	copy(out, r.order)
	return out
}

// Catalog holds every reference definition of the ruleset.
type Catalog struct {
	races   registry[*Race]
	traits  registry[*Trait]
	feats   registry[*Feat]
	skills  registry[*Skill]
	madness registry[*MadnessEffect]
	grades  registry[*ApertureGrade]
	ranks   registry[*Rank]
	items   *inventory.Registry
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		races:   newRegistry[*Race]("race"),
		traits:  newRegistry[*Trait]("trait"),
		feats:   newRegistry[*Feat]("feat"),
		skills:  newRegistry[*Skill]("skill"),
		madness: newRegistry[*MadnessEffect]("madness effect"),
		grades:  newRegistry[*ApertureGrade]("aperture grade"),
		ranks:   newRegistry[*Rank]("rank"),
		items:   inventory.NewRegistry(),
	}
}

// AddRace registers r. Returns an error for a duplicate ID.
func (c *Catalog) AddRace(r *Race) error                     { return c.races.add(r) }

// AddTrait registers t. Returns an error for a duplicate ID.
func (c *Catalog) AddTrait(t *Trait) error                   { return c.traits.add(t) }

// AddFeat registers f. Returns an error for a duplicate ID.
func (c *Catalog) AddFeat(f *Feat) error                     { return c.feats.add(f) }

// AddSkill registers s. Returns an error for a duplicate ID.
func (c *Catalog) AddSkill(s *Skill) error                   { return c.skills.add(s) }

// AddMadness registers m. Returns an error for a duplicate ID.
func (c *Catalog) AddMadness(m *MadnessEffect) error         { return c.madness.add(m) }

// AddGrade registers g. Returns an error for a duplicate ID.
func (c *Catalog) AddGrade(g *ApertureGrade) error           { return c.grades.add(g) }

// AddRank registers r. Returns an error for a duplicate ID.
func (c *Catalog) AddRank(r *Rank) error                     { return c.ranks.add(r) }

// AddItem registers d. Returns an error for a duplicate ID.
func (c *Catalog) AddItem(d *inventory.ItemDef) error        { return c.items.RegisterItem(d) }

func (c *Catalog) Race(id string) (*Race, bool)              { return c.races.get(id) }
func (c *Catalog) Trait(id string) (*Trait, bool)            { return c.traits.get(id) }
func (c *Catalog) Feat(id string) (*Feat, bool)              { return c.feats.get(id) }
func (c *Catalog) Skill(id string) (*Skill, bool)            { return c.skills.get(id) }
func (c *Catalog) Madness(id string) (*MadnessEffect, bool)  { return c.madness.get(id) }
func (c *Catalog) Grade(id string) (*ApertureGrade, bool)    { return c.grades.get(id) }
func (c *Catalog) Rank(id string) (*Rank, bool)              { return c.ranks.get(id) }
func (c *Catalog) Item(id string) (*inventory.ItemDef, bool) { return c.items.Item(id) }
func (c *Catalog) Races() []*Race                            { return c.races.all() }
func (c *Catalog) Traits() []*Trait                          { return c.traits.all() }
func (c *Catalog) Feats() []*Feat                            { return c.feats.all() }
func (c *Catalog) Skills() []*Skill                          { return c.skills.all() }
func (c *Catalog) MadnessEffects() []*MadnessEffect          { return c.madness.all() }
func (c *Catalog) Grades() []*ApertureGrade                  { return c.grades.all() }
func (c *Catalog) Ranks() []*Rank                            { return c.ranks.all() }
func (c *Catalog) Items() []*inventory.ItemDef               { return c.items.AllItems() }

// Check cross-validates references between definitions and the presence of
// the default race, grade and rank.
//
// Postcondition: returns nil iff every reference resolves.
func (c *Catalog) Check() error {
	var errs []error
	for _, r := range c.races.order {
		for skillID := range r.SkillModifiers {
			if _, ok := c.skills.get(skillID); !ok {
				errs = append(errs, fmt.Errorf("race %q: unknown skill %q", r.ID, skillID))
			}
		}
	}
	if _, ok := c.races.get(DefaultRaceID); !ok {
		errs = append(errs, fmt.Errorf("default race %q is not defined", DefaultRaceID))
	}
	if _, ok := c.grades.get(DefaultGradeID); !ok {
		errs = append(errs, fmt.Errorf("default aperture grade %q is not defined", DefaultGradeID))
	}
	if _, ok := c.ranks.get(DefaultRankID); !ok {
		errs = append(errs, fmt.Errorf("default rank %q is not defined", DefaultRankID))
	}
	return errors.Join(errs...)
}

// Content file names read by LoadCatalog.
const (
	RacesFile     = "races.yaml"
	TraitsFile    = "traits.yaml"
	FeatsFile     = "feats.yaml"
	SkillsFile    = "skills.yaml"
	MadnessFile   = "madness.yaml"
	ItemsFile     = "items.yaml"
	AperturesFile = "apertures.yaml"
	RanksFile     = "ranks.yaml"
)

// LoadCatalog reads every content file from dir and returns a populated Catalog.
//
// Precondition: dir must be a readable directory holding all content files.
// Postcondition: Returns a fully validated Catalog or the first error encountered.
func LoadCatalog(dir string) (*Catalog, error) {
	c := NewCatalog()

	var races struct {
		Races []*Race `yaml:"races"`
	}
	var traits struct {
		Traits []*Trait `yaml:"traits"`
	}
	var feats struct {
		Feats []*Feat `yaml:"feats"`
	}
	var skills struct {
		Skills []*Skill `yaml:"skills"`
	}
	var madness struct {
		Madness []*MadnessEffect `yaml:"madness"`
	}
	var grades struct {
		Grades []*ApertureGrade `yaml:"grades"`
	}
	var ranks struct {
		Ranks []*Rank `yaml:"ranks"`
	}

	files := []struct {
		name string
		into any
	}{
		{RacesFile, &races},
		{TraitsFile, &traits},
		{FeatsFile, &feats},
		{SkillsFile, &skills},
		{MadnessFile, &madness},
		{AperturesFile, &grades},
		{RanksFile, &ranks},
	}
	for _, f := range files {
		if err := decodeFile(filepath.Join(dir, f.name), f.into); err != nil {
			return nil, err
		}
	}

	if err := addAll(races.Races, c.AddRace); err != nil {
		return nil, err
	}
	if err := addAll(traits.Traits, c.AddTrait); err != nil {
		return nil, err
	}
	if err := addAll(feats.Feats, c.AddFeat); err != nil {
		return nil, err
	}
	if err := addAll(skills.Skills, c.AddSkill); err != nil {
		return nil, err
	}
	if err := addAll(madness.Madness, c.AddMadness); err != nil {
		return nil, err
	}
	if err := addAll(grades.Grades, c.AddGrade); err != nil {
		return nil, err
	}
	if err := addAll(ranks.Ranks, c.AddRank); err != nil {
		return nil, err
	}

	items, err := inventory.LoadItems(filepath.Join(dir, ItemsFile))
	if err != nil {
		return nil, err
	}
	for _, d := range items {
		if err := c.AddItem(d); err != nil {
			return nil, err
		}
	}

	if err := c.Check(); err != nil {
		return nil, fmt.Errorf("LoadCatalog: %q: %w", dir, err)
	}
	return c, nil
}

func decodeFile(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("LoadCatalog: cannot read file %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("LoadCatalog: cannot parse file %q: %w", path, err)
	}
	return nil
}

func addAll[T keyed](defs []T, add func(T) error) error {
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("LoadCatalog: invalid definition %q: %w", d.key(), err)
		}
		if err := add(d); err != nil {
			return err
		}
	}
	return nil
}
