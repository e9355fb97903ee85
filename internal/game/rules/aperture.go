package rules

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ApertureGrade bounds a character's maximum essence and sets how fast it refills.
type ApertureGrade struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	MinMaxEssence     int    `yaml:"min_max_essence"`
	MaxMaxEssence     int    `yaml:"max_max_essence"`
	RecoveryTimeHours int    `yaml:"recovery_time_hours"`
	Description       string `yaml:"description"`
}

// ClampMaxEssence clamps v into [MinMaxEssence, MaxMaxEssence].
func (g *ApertureGrade) ClampMaxEssence(v float64) float64 {
	return math.Min(float64(g.MaxMaxEssence), math.Max(float64(g.MinMaxEssence), v))
}

// Validate checks the ApertureGrade invariants.
func (g *ApertureGrade) Validate() error {
	var errs []error
	if g.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if g.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if g.MinMaxEssence < 0 || g.MaxMaxEssence < g.MinMaxEssence {
		errs = append(errs, fmt.Errorf("essence range [%d, %d] is invalid", g.MinMaxEssence, g.MaxMaxEssence))
	}
	if g.RecoveryTimeHours < 0 {
		errs = append(errs, fmt.Errorf("RecoveryTimeHours must be >= 0, got %d", g.RecoveryTimeHours))
	}
	if len(errs) > 0 {
		return fmt.Errorf("aperture grade validation failed: %v", errs)
	}
	return nil
}

func (g *ApertureGrade) key() string { return g.ID }

// StageID names a cultivation stage within a rank.
type StageID string

const (
	StageInitial StageID = "Initial"
	StageMiddle  StageID = "Middle"
	StageUpper   StageID = "Upper"
	StagePeak    StageID = "Peak"
)

// AllStages lists the stages from lowest to highest.
var AllStages = []StageID{StageInitial, StageMiddle, StageUpper, StagePeak}

var stageFactors = map[StageID]float64{
	StageInitial: 1,
	StageMiddle:  4,
	StageUpper:   16,
	StagePeak:    64,
}

// ValidStage reports whether s is one of AllStages.
func ValidStage(s StageID) bool {
	_, ok := stageFactors[s]
	return ok
}

// Stage describes one stage of a Rank.
type Stage struct {
	ID          StageID `yaml:"id"`
	Name        string  `yaml:"name"`
	EssenceName string  `yaml:"essence_name"`
	ColorName   string  `yaml:"color_name"`
}

// Rank is a cultivation rank with its four stages.
type Rank struct {
	ID           string  `yaml:"id"`
	Numeric      int     `yaml:"numeric"`
	Name         string  `yaml:"name"`
	ColorGroup   string  `yaml:"color_group"`
	Condensation string  `yaml:"condensation"`
	Stages       []Stage `yaml:"stages"`
}

// Stage returns the stage with the given id.
func (r *Rank) Stage(id StageID) (Stage, bool) {
	for _, s := range r.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

// Validate checks the Rank invariants.
//
// Postcondition: a valid rank declares each of AllStages exactly once.
func (r *Rank) Validate() error {
	var errs []error
	if r.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if r.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if r.Numeric < 1 {
		errs = append(errs, fmt.Errorf("Numeric must be >= 1, got %d", r.Numeric))
	}
	seen := make(map[StageID]bool, len(r.Stages))
	for _, s := range r.Stages {
		if !ValidStage(s.ID) {
			errs = append(errs, fmt.Errorf("unknown stage %q", s.ID))
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Errorf("duplicate stage %q", s.ID))
		}
		seen[s.ID] = true
	}
	for _, id := range AllStages {
		if !seen[id] {
			errs = append(errs, fmt.Errorf("missing stage %q", id))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("rank validation failed: %v", errs)
	}
	return nil
}

func (r *Rank) key() string { return r.ID }

// CondensationValue returns the essence value of (rank, stage) measured in
// units of rank-1 peak essence. Ranks 1 and 2 scale down from their peak;
// ranks 3 and above scale up from their initial stage, each initial stage
// worth ten times the previous rank's peak.
//
// Postcondition: ok is false for rank < 1 or an unknown stage.
func CondensationValue(rank int, stage StageID) (v float64, ok bool) {
	f, known := stageFactors[stage]
	if !known || rank < 1 {
		return 0, false
	}
	peak := stageFactors[StagePeak]
	switch rank {
	case 1:
		return f / peak, true
	case 2:
		return 1000 * f / peak, true
	}
	initial := 10000.0
	for r := 4; r <= rank; r++ {
		initial = 10 * initial * peak
	}
	return initial * f, true
}

// Comparison relates the current essence to another (rank, stage). Factor is
// current/other; a factor above 1 means the current essence is denser.
type Comparison struct {
	RankName  string
	StageName string
	Factor    float64
}

// MoreConcentrated reports whether the current essence is denser than the compared one.
func (c Comparison) MoreConcentrated() bool { return c.Factor > 1 }

// Target names the compared stage, qualified by rank when one is set.
func (c Comparison) Target() string {
	if c.RankName != "" {
		return c.RankName + ", " + c.StageName
	}
	return c.StageName
}

// String renders the comparison as a display line.
func (c Comparison) String() string {
	return FormatFactor(c.Factor) + " ед. эссенции " + c.Target() + "."
}

// FormatFactor renders a condensation factor with two decimals, switching to
// exponent form for tiny non-zero values.
func FormatFactor(f float64) string {
	if f != 0 && math.Abs(f) < 0.01 {
		return strconv.FormatFloat(f, 'e', 2, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

type keyComparison struct {
	rank  int
	stage StageID
	name  string
}

var keyComparisons = []keyComparison{
	{1, StagePeak, "Пиковой стадии Ранга 1"},
	{1, StageInitial, "Начальной стадии Ранга 1"},
	{2, StagePeak, "Пиковой стадии Ранга 2"},
	{3, StageInitial, "Начальной стадии Ранга 3"},
}

// CondensationDetails compares the essence of (rank, stage) with the other
// stages of the same rank and with fixed landmark stages of other ranks.
//
// Precondition: rank is non-nil.
// Postcondition: results are sorted by Factor descending; landmarks within
// the current rank are omitted since the per-stage comparisons cover them.
// Returns nil when stage is not part of rank.
func CondensationDetails(rank *Rank, stage StageID) []Comparison {
	current, ok := CondensationValue(rank.Numeric, stage)
	if !ok {
		return nil
	}
	if _, ok := rank.Stage(stage); !ok {
		return nil
	}
	var out []Comparison
	for _, s := range rank.Stages {
		if s.ID == stage {
			continue
		}
		other, _ := CondensationValue(rank.Numeric, s.ID)
		out = append(out, Comparison{RankName: rank.Name, StageName: s.Name, Factor: current / other})
	}
	for _, k := range keyComparisons {
		if k.rank == rank.Numeric {
			continue
		}
		other, _ := CondensationValue(k.rank, k.stage)
		out = append(out, Comparison{StageName: k.name, Factor: current / other})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Factor > out[j].Factor })
	return out
}
