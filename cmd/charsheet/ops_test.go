package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gusheet/internal/backstory"
	"github.com/cory-johannsen/gusheet/internal/game/character"
	"github.com/cory-johannsen/gusheet/internal/game/dice"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
	"github.com/cory-johannsen/gusheet/internal/savefile"
)

type fakeGenerator struct {
	text string
	err  error
	got  backstory.Snapshot
}

func (f *fakeGenerator) Generate(_ context.Context, s backstory.Snapshot) (string, error) {
	f.got = s
	return f.text, f.err
}

type fakeArchive struct {
	name string
	data []byte
}

func (f *fakeArchive) Save(_ context.Context, name string, data []byte) (int64, error) {
	f.name, f.data = name, data
	return 7, nil
}

func testDeps(t *testing.T) (opDeps, *fakeArchive) {
	t.Helper()
	cat, err := rules.LoadCatalog("../../content")
	require.NoError(t, err)
	e := character.NewEngine(cat, rules.Default(), dice.NewLoggedRoller(dice.NewScriptedSource(4), nil), nil)
	arch := &fakeArchive{}
	return opDeps{
		engine:    e,
		generator: backstory.Disabled{},
		archive: func(context.Context) (sheetArchive, func(), error) {
			return arch, func() {}, nil
		},
	}, arch
}

func complete(t *testing.T, e *character.Engine) character.State {
	t.Helper()
	s := e.SetName(e.New(), "Фан Юань")
	var err error
	for _, a := range []rules.Attribute{rules.Strength, rules.Dexterity, rules.Constitution} {
		for s.Base.Get(a) < 15 {
			s, err = e.IncreaseAttribute(s, a)
			require.NoError(t, err)
		}
	}
	for _, id := range []string{"skill_athletics", "skill_acrobatics", "skill_stealth"} {
		s, err = e.ToggleSkill(s, id)
		require.NoError(t, err)
	}
	return s
}

func TestApply_ShowDoesNotMutate(t *testing.T) {
	d, _ := testDeps(t)
	s := d.engine.New()
	res, err := apply(context.Background(), d, s, opShow, 0, "")
	require.NoError(t, err)
	assert.False(t, res.mutated)
	assert.Equal(t, s, res.state)
}

func TestApply_DamageAndHeal(t *testing.T) {
	d, _ := testDeps(t)
	s := d.engine.New()
	maxHP := s.Derived.MaxHP

	res, err := apply(context.Background(), d, s, opDamage, 1, "")
	require.NoError(t, err)
	assert.True(t, res.mutated)
	assert.Equal(t, maxHP-1, res.state.Resources.CurrentHP)

	res, err = apply(context.Background(), d, res.state, opHeal, 5, "")
	require.NoError(t, err)
	assert.Equal(t, maxHP, res.state.Resources.CurrentHP)

	_, err = apply(context.Background(), d, s, opDamage, 0, "")
	assert.Error(t, err)
}

func TestApply_PassTimeReportsClock(t *testing.T) {
	d, _ := testDeps(t)
	res, err := apply(context.Background(), d, d.engine.New(), opPassTime, 3, "")
	require.NoError(t, err)
	assert.True(t, res.mutated)
	require.NotEmpty(t, res.report)
	assert.Contains(t, res.report[0], "День 1, 11:00")
}

func TestApply_RefusalsAreValidationErrors(t *testing.T) {
	d, _ := testDeps(t)
	s := d.engine.New()

	_, err := apply(context.Background(), d, s, opPassTime, 0, "")
	assert.ErrorIs(t, err, character.ErrValidation)

	_, err = apply(context.Background(), d, s, opRace, 0, "race_does_not_exist")
	assert.ErrorIs(t, err, character.ErrValidation)
}

func TestApply_UnknownOperation(t *testing.T) {
	d, _ := testDeps(t)
	_, err := apply(context.Background(), d, d.engine.New(), "dance", 0, "")
	assert.Error(t, err)
}

func TestApply_SpendHitDiceAtFullHPIsNoOp(t *testing.T) {
	d, _ := testDeps(t)
	res, err := apply(context.Background(), d, d.engine.New(), opSpendHD, 1, "")
	require.NoError(t, err)
	assert.False(t, res.mutated)
}

func TestApply_Backstory(t *testing.T) {
	d, _ := testDeps(t)
	s := complete(t, d.engine)

	_, err := apply(context.Background(), d, s, opBackstory, 0, "")
	assert.ErrorIs(t, err, backstory.ErrUnavailable)

	gen := &fakeGenerator{text: "Родился в горах."}
	d.generator = gen
	res, err := apply(context.Background(), d, s, opBackstory, 0, "")
	require.NoError(t, err)
	assert.True(t, res.mutated)
	assert.Equal(t, "Родился в горах.", res.state.Backstory)
	assert.Equal(t, "Фан Юань", gen.got.Name)

	gen.err = errors.New("boom")
	_, err = apply(context.Background(), d, s, opBackstory, 0, "")
	assert.Error(t, err)
}

func TestApply_ArchiveStoresEncodedSave(t *testing.T) {
	d, arch := testDeps(t)
	s := complete(t, d.engine)

	res, err := apply(context.Background(), d, s, opArchive, 0, "")
	require.NoError(t, err)
	assert.False(t, res.mutated)
	assert.Equal(t, "Фан Юань", arch.name)

	back, err := savefile.Decode(d.engine, arch.data)
	require.NoError(t, err)
	assert.Equal(t, s.Name, back.Name)
	assert.Equal(t, s.Base, back.Base)
}

func TestApply_ArchiveRefusesIncompleteCharacter(t *testing.T) {
	d, _ := testDeps(t)
	opened := false
	d.archive = func(context.Context) (sheetArchive, func(), error) {
		opened = true
		return nil, nil, errors.New("unreachable")
	}
	_, err := apply(context.Background(), d, d.engine.New(), opArchive, 0, "")
	assert.ErrorIs(t, err, character.ErrValidation)
	assert.False(t, opened)
}
