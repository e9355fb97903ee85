package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// RegisterModules registers the engine.* Lua table into L:
//
//	engine.roll(expr)        -> total of a dice expression, or nil on a bad expression
//	engine.modifier(score)   -> attribute modifier
//	engine.log.info(msg)     -> writes msg to the house-rule logger
//	engine.log.warn(msg)
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (h *HouseRules) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	L.SetField(engine, "roll", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		res, err := h.roller.RollExpr(expr)
		if err != nil {
			h.logger.Warn("scripting: engine.roll failed", zap.String("expr", expr), zap.Error(err))
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(res.Total()))
		return 1
	}))

	L.SetField(engine, "modifier", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(rules.Modifier(L.CheckInt(1))))
		return 1
	}))

	log := L.NewTable()
	L.SetField(log, "info", L.NewFunction(func(L *lua.LState) int {
		h.logger.Info(L.CheckString(1), zap.String("source", "lua"))
		return 0
	}))
	L.SetField(log, "warn", L.NewFunction(func(L *lua.LState) int {
		h.logger.Warn(L.CheckString(1), zap.String("source", "lua"))
		return 0
	}))
	L.SetField(engine, "log", log)

	L.SetGlobal("engine", engine)
}
