package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gusheet/internal/game/dice"
	"github.com/cory-johannsen/gusheet/internal/scripting"
)

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func loadRules(t testing.TB, dir string, faces ...int) (*scripting.HouseRules, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	if len(faces) == 0 {
		faces = []int{1}
	}
	roller := dice.NewLoggedRoller(dice.NewScriptedSource(faces...), logger)
	h, err := scripting.LoadHouseRules(dir, 0, roller, logger)
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h, logs
}

func sheet() scripting.SheetInfo {
	return scripting.SheetInfo{
		Name:             "Ли",
		Level:            3,
		RaceID:           "human",
		Attributes:       map[string]int{"strength": 14, "constitution": 8},
		HP:               5,
		MaxHP:            20,
		Exhaustion:       2,
		Clock:            56,
		ProficiencyBonus: 2,
	}
}

func hasWarn(logs *observer.ObservedLogs) bool {
	for _, e := range logs.All() {
		if e.Level == zap.WarnLevel {
			return true
		}
	}
	return false
}

func TestExtraStats_ReadsSheetTable(t *testing.T) {
	dir := writeTempLua(t, "rules.lua", `
		function derived_stats(s)
			local lines = {}
			table.insert(lines, s.name .. " ур. " .. s.level)
			if s.hp * 2 < s.max_hp then
				table.insert(lines, "Ранен")
			end
			table.insert(lines, "Сила: " .. engine.modifier(s.attributes.strength))
			return lines
		end
	`)
	h, _ := loadRules(t, dir)
	assert.Equal(t, []string{"Ли ур. 3", "Ранен", "Сила: 2"}, h.ExtraStats(sheet()))
}

func TestExtraStats_SingleString(t *testing.T) {
	dir := writeTempLua(t, "rules.lua", `function derived_stats(s) return "День " .. (math.floor(s.clock / 24) + 1) end`)
	h, _ := loadRules(t, dir)
	assert.Equal(t, []string{"День 3"}, h.ExtraStats(sheet()))
}

func TestExtraStats_NoHookYieldsNothing(t *testing.T) {
	h, _ := loadRules(t, t.TempDir())
	assert.Empty(t, h.ExtraStats(sheet()))
}

func TestExtraStats_RuntimeErrorLogsWarn(t *testing.T) {
	dir := writeTempLua(t, "bad.lua", `function derived_stats(s) error("intentional error") end`)
	h, logs := loadRules(t, dir)
	assert.Empty(t, h.ExtraStats(sheet()))
	assert.True(t, hasWarn(logs), "expected Warn log for Lua runtime error")
}

func TestExtraStats_SkipsNonStrings(t *testing.T) {
	dir := writeTempLua(t, "mixed.lua", `function derived_stats(s) return {"a", 7, "b"} end`)
	h, logs := loadRules(t, dir)
	assert.Equal(t, []string{"a", "b"}, h.ExtraStats(sheet()))
	assert.True(t, hasWarn(logs))
}

func TestExtraStats_RunawayScriptIsStoppedAndVMSurvives(t *testing.T) {
	dir := writeTempLua(t, "loop.lua", `
		calls = 0
		function derived_stats(s)
			calls = calls + 1
			if calls == 1 then
				while true do end
			end
			return "ok"
		end
	`)
	h, _ := loadRules(t, dir)
	assert.Empty(t, h.ExtraStats(sheet()))
	assert.Equal(t, []string{"ok"}, h.ExtraStats(sheet()))
}

func TestEngineRoll_UsesRoller(t *testing.T) {
	dir := writeTempLua(t, "roll.lua", `function roll_it() return engine.roll("2d6+1") end`)
	h, _ := loadRules(t, dir, 3, 5)
	assert.Equal(t, lua.LNumber(9), h.CallHook("roll_it"))
}

func TestEngineRoll_BadExpressionReturnsNil(t *testing.T) {
	dir := writeTempLua(t, "roll.lua", `function roll_it() return engine.roll("banana") end`)
	h, logs := loadRules(t, dir)
	assert.Equal(t, lua.LNil, h.CallHook("roll_it"))
	assert.True(t, hasWarn(logs))
}

func TestEngineLog_WritesToLogger(t *testing.T) {
	dir := writeTempLua(t, "log.lua", `function do_log() engine.log.info("hello from lua") end`)
	h, logs := loadRules(t, dir)
	h.CallHook("do_log")
	assert.Equal(t, 1, logs.FilterMessage("hello from lua").Len())
}

func TestLoadHouseRules_MultipleFiles_OrderedByName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`base_val = 10`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`
		function get_val() return base_val end
	`), 0644))
	h, _ := loadRules(t, dir)
	assert.Equal(t, lua.LNumber(10), h.CallHook("get_val"))
}

func TestLoadHouseRules_InvalidLua_ReturnsError(t *testing.T) {
	dir := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), nil)
	_, err := scripting.LoadHouseRules(dir, 0, roller, nil)
	assert.Error(t, err)
}

func TestLoadHouseRules_MissingDir_ReturnsError(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), nil)
	_, err := scripting.LoadHouseRules(filepath.Join(t.TempDir(), "nope"), 0, roller, nil)
	assert.Error(t, err)
}

func TestLoadHouseRules_PanicsOnNilRoller(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = scripting.LoadHouseRules(t.TempDir(), 0, nil, nil)
	})
}

func TestHouseRules_Close_StopsCalls(t *testing.T) {
	dir := writeTempLua(t, "init.lua", `function derived_stats(s) return "x" end`)
	h, _ := loadRules(t, dir)
	h.Close()
	assert.Empty(t, h.ExtraStats(sheet()))
	assert.Equal(t, lua.LNil, h.CallHook("derived_stats"))
}

func TestProperty_ExtraStatsConcurrent_NoRace(t *testing.T) {
	dir := writeTempLua(t, "hooks.lua", `function derived_stats(s) return {s.name} end`)
	h, _ := loadRules(t, dir)

	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "name")
		info := sheet()
		info.Name = name

		results := make([][]string, 4)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = h.ExtraStats(info)
			}()
		}
		wg.Wait()
		for _, r := range results {
			assert.Equal(rt, []string{name}, r)
		}
	})
}
