// Package savefile reads and writes the JSON character save format.
//
// Loading is atomic: a save either decodes into a complete, recomputed
// character or fails with ErrLoad and yields nothing.
package savefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/game/character"
	"github.com/cory-johannsen/gusheet/internal/game/inventory"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// ErrLoad is wrapped by every Decode failure.
var ErrLoad = errors.New("не удалось загрузить персонажа")

const (
	legacyHandsPath = "equipment.hands"
	handsLPath      = "equipment.hands_L"
)

// Encode validates s for saving and renders it as indented JSON.
//
// Postcondition: on a validation failure no bytes are returned and the error
// wraps character.ErrValidation.
func Encode(e *character.Engine, s character.State) ([]byte, error) {
	if err := e.ValidateForSave(s); err != nil {
		return nil, err
	}
	return json.MarshalIndent(toRecord(s), "", "  ")
}

func toRecord(s character.State) record {
	traits := nonNil(s.TraitIDs)
	rec := record{
		Name:                     s.Name,
		Level:                    s.Level,
		BaseAttributes:           ptr(toAttributesRecord(s.Base)),
		AttributeBuyPoints:       s.BuyPoints,
		ModificationPoints:       s.Derived.ModificationPoints,
		SelectedRaceID:           s.RaceID,
		Height:                   s.Appearance.Height,
		Weight:                   s.Appearance.Weight,
		EyeColor:                 s.Appearance.EyeColor,
		HairColor:                s.Appearance.HairColor,
		Age:                      s.Appearance.Age,
		ManualBackstory:          s.Appearance.ManualBackstory,
		SelectedTraitIDs:         &traits,
		SelectedItemIDs:          nonNil(s.ItemIDs),
		SelectedSkillIDs:         nonNil(s.SkillIDs),
		SelectedFlawFeatIDs:      nonNil(s.FlawIDs),
		MadnessEffectID:          s.MadnessID,
		Backstory:                s.Backstory,
		ApertureGradeID:          s.Aperture.GradeID,
		CharacterRankID:          s.Aperture.RankID,
		SelectedEssenceStageID:   string(s.Aperture.StageID),
		CurrentEssencePercentage: ptr(s.Aperture.Essence),
		SpecificMaxEssence:       ptr(s.Aperture.SpecificMaxEssence),
		CurrentHP:                s.Resources.CurrentHP,
		HitDieType:               s.Resources.HitDieType,
		CurrentHitDice:           s.Resources.CurrentHitDice,
		GameTimeHours:            s.Resources.GameTimeHours,
		LastLongRestEndTime:      s.Resources.LastLongRestEnd,
		LastExhaustionCheckTime:  s.Resources.LastExhaustionCheck,
		ExhaustionLevel:          s.Resources.ExhaustionLevel,
		ArmorTypeWornForSleep:    string(s.Resources.SleepArmor),
		ManualMaxHPModifier:      s.Resources.ManualMaxHPModifier,
		ManualACModifier:         s.Resources.ManualACModifier,
		Equipment:                make(map[string]*instanceRecord, len(s.Inventory.Equipment)),
		Backpack:                 make([]instanceRecord, 0, len(s.Inventory.Backpack)),
		CustomItems:              make([]customItemRecord, 0, len(s.CustomItems)),
	}
	for slot, it := range s.Inventory.Equipment {
		rec.Equipment[string(slot)] = ptr(toInstanceRecord(it))
	}
	for _, it := range s.Inventory.Backpack {
		rec.Backpack = append(rec.Backpack, toInstanceRecord(it))
	}
	for _, d := range s.CustomItems {
		rec.CustomItems = append(rec.CustomItems, toCustomItemRecord(d))
	}
	return rec
}

// Decode parses a save into a recomputed character.
//
// Postcondition: on any failure the zero State is returned together with a
// single error wrapping ErrLoad.
func Decode(e *character.Engine, data []byte) (character.State, error) {
	s, err := decode(e, data)
	if err != nil {
		e.Logger.Warn("character load failed", zap.Error(err))
		return character.State{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return s, nil
}

func decode(e *character.Engine, data []byte) (character.State, error) {
	if !gjson.ValidBytes(data) {
		return character.State{}, errors.New("файл не является корректным JSON")
	}
	data, err := migrate(data)
	if err != nil {
		return character.State{}, err
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return character.State{}, err
	}
	if rec.Name == "" || rec.BaseAttributes == nil || rec.SelectedTraitIDs == nil {
		return character.State{}, errors.New("файл персонажа имеет неверный формат")
	}
	return fromRecord(e, rec)
}

// migrate renames the legacy single "hands" slot to "hands_L". An existing
// hands_L wins; the legacy key is always dropped.
func migrate(data []byte) ([]byte, error) {
	legacy := gjson.GetBytes(data, legacyHandsPath)
	if !legacy.Exists() {
		return data, nil
	}
	var err error
	if !gjson.GetBytes(data, handsLPath).Exists() {
		if data, err = sjson.SetRawBytes(data, handsLPath, []byte(legacy.Raw)); err != nil {
			return nil, fmt.Errorf("migrating hands slot: %w", err)
		}
	}
	if data, err = sjson.DeleteBytes(data, legacyHandsPath); err != nil {
		return nil, fmt.Errorf("migrating hands slot: %w", err)
	}
	return data, nil
}

func fromRecord(e *character.Engine, rec record) (character.State, error) {
	cat := e.Catalog
	s := character.State{
		Name:      rec.Name,
		Level:     max(1, rec.Level),
		Base:      rec.BaseAttributes.attributes(),
		BuyPoints: rec.AttributeBuyPoints,
		RaceID:    rec.SelectedRaceID,
		Appearance: character.Appearance{
			Age:             rec.Age,
			Height:          rec.Height,
			Weight:          rec.Weight,
			EyeColor:        rec.EyeColor,
			HairColor:       rec.HairColor,
			ManualBackstory: rec.ManualBackstory,
		},
		TraitIDs:  known(*rec.SelectedTraitIDs, func(id string) bool { _, ok := cat.Trait(id); return ok }),
		SkillIDs:  known(rec.SelectedSkillIDs, func(id string) bool { _, ok := cat.Skill(id); return ok }),
		ItemIDs:   known(rec.SelectedItemIDs, func(id string) bool { _, ok := cat.Item(id); return ok }),
		FlawIDs:   known(rec.SelectedFlawFeatIDs, func(id string) bool { f, ok := cat.Feat(id); return ok && f.Manual() }),
		Backstory: rec.Backstory,
	}
	for _, a := range rules.AllAttributes {
		if v := s.Base.Get(a); v < e.Rules.MinScore || v > e.Rules.MaxBuyScore {
			return character.State{}, fmt.Errorf("%s: значение %d вне допустимого диапазона", rules.AttributeName(a), v)
		}
	}
	race, ok := cat.Race(s.RaceID)
	if !ok {
		s.RaceID = rules.DefaultRaceID
		race, _ = cat.Race(s.RaceID)
	}
	if _, ok := cat.Madness(rec.MadnessEffectID); ok {
		s.MadnessID = rec.MadnessEffectID
	}

	ap, err := aperture(e, rec)
	if err != nil {
		return character.State{}, err
	}
	s.Aperture = ap

	res, err := resources(e, rec)
	if err != nil {
		return character.State{}, err
	}
	s.Resources = res

	for _, cr := range rec.CustomItems {
		d := cr.def()
		if !inventory.IsCustomID(d.ID) {
			return character.State{}, fmt.Errorf("собственный предмет %q: неверный идентификатор", d.ID)
		}
		if err := d.Validate(); err != nil {
			return character.State{}, fmt.Errorf("собственный предмет %q: %w", d.ID, err)
		}
		s.CustomItems = append(s.CustomItems, d)
	}

	inv, err := inventoryFrom(rec)
	if err != nil {
		return character.State{}, err
	}
	s.Inventory = inv

	s.EligibleAttributes = character.TopAttributesForSkillSelection(character.FinalAttributes(s.Base, race))
	return e.Recompute(s), nil
}

func aperture(e *character.Engine, rec record) (character.Aperture, error) {
	cat := e.Catalog
	ap := character.Aperture{
		GradeID: rec.ApertureGradeID,
		RankID:  rec.CharacterRankID,
		StageID: rules.StageID(rec.SelectedEssenceStageID),
	}
	if _, ok := cat.Grade(ap.GradeID); !ok {
		ap.GradeID = rules.DefaultGradeID
	}
	if _, ok := cat.Rank(ap.RankID); !ok {
		ap.RankID = rules.DefaultRankID
	}
	if !rules.ValidStage(ap.StageID) {
		ap.StageID = rules.DefaultStageID
	}
	grade, ok := cat.Grade(ap.GradeID)
	if !ok {
		return character.Aperture{}, fmt.Errorf("степень апертуры %q отсутствует в справочнике", ap.GradeID)
	}
	fallback := float64(grade.MinMaxEssence)
	if def, ok := cat.Grade(rules.DefaultGradeID); ok {
		fallback = float64(def.MinMaxEssence)
	}
	ap.SpecificMaxEssence = grade.ClampMaxEssence(deref(rec.SpecificMaxEssence, fallback))
	ap.Essence = max(0, min(deref(rec.CurrentEssencePercentage, fallback), ap.SpecificMaxEssence))
	return ap, nil
}

func resources(e *character.Engine, rec record) (character.Resources, error) {
	res := character.Resources{
		CurrentHP:           max(0, rec.CurrentHP),
		HitDieType:          rec.HitDieType,
		CurrentHitDice:      max(0, rec.CurrentHitDice),
		GameTimeHours:       rec.GameTimeHours,
		LastLongRestEnd:     rec.LastLongRestEndTime,
		LastExhaustionCheck: rec.LastExhaustionCheckTime,
		ExhaustionLevel:     rec.ExhaustionLevel,
		SleepArmor:          character.SleepArmor(rec.ArmorTypeWornForSleep),
		ManualMaxHPModifier: rec.ManualMaxHPModifier,
		ManualACModifier:    rec.ManualACModifier,
	}
	if res.HitDieType == 0 {
		res.HitDieType = e.Rules.DefaultHitDie
	}
	if !e.Rules.ValidHitDie(res.HitDieType) {
		return character.Resources{}, fmt.Errorf("недопустимая кость хитов d%d", res.HitDieType)
	}
	if res.GameTimeHours == 0 {
		res.GameTimeHours = character.StartingClock
	}
	if res.SleepArmor == "" {
		res.SleepArmor = character.SleepArmorNone
	}
	if !character.ValidSleepArmor(res.SleepArmor) {
		return character.Resources{}, fmt.Errorf("неизвестный тип доспехов для сна %q", res.SleepArmor)
	}
	if res.ExhaustionLevel < 0 || res.ExhaustionLevel > 6 {
		return character.Resources{}, fmt.Errorf("уровень истощения %d вне диапазона 0-6", res.ExhaustionLevel)
	}
	return res, nil
}

// inventoryFrom rebuilds the inventory. Null and unknown slots are skipped;
// an instance id carried twice is an error.
func inventoryFrom(rec record) (inventory.Inventory, error) {
	inv := inventory.Inventory{Equipment: inventory.Equipment{}, Backpack: []inventory.ItemInstance{}}
	seen := make(map[string]bool)
	claim := func(r instanceRecord) error {
		if r.InstanceID == "" || r.ItemID == "" {
			return errors.New("предмет инвентаря без идентификатора")
		}
		if seen[r.InstanceID] {
			return fmt.Errorf("экземпляр предмета %q встречается дважды", r.InstanceID)
		}
		seen[r.InstanceID] = true
		return nil
	}
	for _, slot := range inventory.AllSlots {
		r := rec.Equipment[string(slot)]
		if r == nil {
			continue
		}
		if err := claim(*r); err != nil {
			return inventory.Inventory{}, err
		}
		inv.Equipment[slot] = r.instance()
	}
	for _, r := range rec.Backpack {
		if err := claim(r); err != nil {
			return inventory.Inventory{}, err
		}
		inv.Backpack = append(inv.Backpack, r.instance())
	}
	return inv, nil
}

// ReadFile loads a character from path.
func ReadFile(e *character.Engine, path string) (character.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return character.State{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return Decode(e, data)
}

// WriteFile encodes s and replaces path atomically: the JSON is written to a
// temporary file in the same directory and renamed over path.
func WriteFile(e *character.Engine, path string, s character.State) error {
	data, err := Encode(e, s)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("savefile: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("savefile: writing %q: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("savefile: syncing %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("savefile: closing %q: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("savefile: chmod %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("savefile: replacing %q: %w", path, err)
	}
	return nil
}

func known(ids []string, ok func(string) bool) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return !ok(id) })
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func ptr[T any](v T) *T { return &v }

func deref(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
