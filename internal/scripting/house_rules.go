package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/game/dice"
)

// DerivedStatsHook is the Lua global called by ExtraStats.
const DerivedStatsHook = "derived_stats"

// SheetInfo is a read-only snapshot of a character passed to Lua callbacks.
type SheetInfo struct {
	Name             string
	Level            int
	RaceID           string
	Attributes       map[string]int
	HP               int
	MaxHP            int
	Exhaustion       int
	Clock            int
	ProficiencyBonus int
}

// table converts the snapshot into the Lua table seen by scripts.
func (s SheetInfo) table(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(s.Name))
	t.RawSetString("level", lua.LNumber(s.Level))
	t.RawSetString("race", lua.LString(s.RaceID))
	t.RawSetString("hp", lua.LNumber(s.HP))
	t.RawSetString("max_hp", lua.LNumber(s.MaxHP))
	t.RawSetString("exhaustion", lua.LNumber(s.Exhaustion))
	t.RawSetString("clock", lua.LNumber(s.Clock))
	t.RawSetString("proficiency_bonus", lua.LNumber(s.ProficiencyBonus))
	attrs := L.NewTable()
	for k, v := range s.Attributes {
		attrs.RawSetString(k, lua.LNumber(v))
	}
	t.RawSetString("attributes", attrs)
	return t
}

// HouseRules owns one sandboxed LState loaded with every house-rule script
// of a directory.
//
// HouseRules is safe for concurrent use; calls into the VM are serialized.
type HouseRules struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	roller *dice.Roller
	logger *zap.Logger
}

// LoadHouseRules creates a sandboxed VM, registers the engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: roller must be non-nil; a nil logger discards script logs.
// Postcondition: returns a ready HouseRules or the first read/load error.
func LoadHouseRules(scriptDir string, instLimit int, roller *dice.Roller, logger *zap.Logger) (*HouseRules, error) {
	if roller == nil {
		panic("scripting: LoadHouseRules requires a non-nil roller")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &HouseRules{limit: instLimit, roller: roller, logger: logger}

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState(instLimit)
	h.RegisterModules(L)
	for _, path := range luaFiles {
		cancel := Rearm(L, instLimit)
		err := L.DoFile(path)
		cancel()
		if err != nil {
			L.Close()
			return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	h.L = L
	logger.Info("house rules loaded", zap.String("dir", scriptDir), zap.Int("scripts", len(luaFiles)))
	return h, nil
}

// CallHook calls the named Lua global function with a fresh instruction
// budget. Returns LNil if the hook is not defined or the rules are closed.
// Lua runtime errors are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (h *HouseRules) CallHook(hook string, args ...lua.LValue) lua.LValue {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.call(hook, args...)
}

// call runs hook with h.mu held.
func (h *HouseRules) call(hook string, args ...lua.LValue) lua.LValue {
	if h.L == nil {
		return lua.LNil
	}
	fn := h.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil
	}

	cancel := Rearm(h.L, h.limit)
	defer cancel()
	if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		h.logger.Warn("scripting: Lua runtime error", zap.String("hook", hook), zap.Error(err))
		return lua.LNil
	}
	ret := h.L.Get(-1)
	h.L.Pop(1)
	return ret
}

// ExtraStats calls derived_stats(sheet) and collects the returned lines. The
// hook may return a single string or an array of strings; other values are
// skipped with a warning.
func (h *HouseRules) ExtraStats(sheet SheetInfo) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.L == nil {
		return nil
	}
	ret := h.call(DerivedStatsHook, sheet.table(h.L))

	switch v := ret.(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		var out []string
		for i := 1; i <= v.Len(); i++ {
			s, ok := v.RawGetInt(i).(lua.LString)
			if !ok {
				h.logger.Warn("scripting: derived_stats returned a non-string entry", zap.Int("index", i))
				continue
			}
			out = append(out, string(s))
		}
		return out
	}
	if ret != lua.LNil {
		h.logger.Warn("scripting: derived_stats returned an unsupported value", zap.String("type", ret.Type().String()))
	}
	return nil
}

// Close releases the VM. Subsequent calls return no lines.
func (h *HouseRules) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.L != nil {
		h.L.Close()
		h.L = nil
	}
}
