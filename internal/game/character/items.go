package character

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/game/inventory"
)

// MoveItem moves a carried instance to an equipment slot or to the backpack
// (inventory.BackpackTarget).
func (e *Engine) MoveItem(s State, instanceID string, target inventory.SlotID) (State, error) {
	opts := inventory.EquipOptions{}
	if race := e.race(s); race != nil {
		opts.NoFeet = race.NoFeet
	}
	inv, err := s.Inventory.Move(e.items(s), instanceID, target, opts)
	if err != nil {
		return e.refused("MoveItem", s, fmt.Errorf("%w: %w", ErrValidation, err))
	}
	out := s.Clone()
	out.Inventory = inv
	return out, nil
}

// DeleteItem removes a carried instance. Deleting a starting item also
// deselects one occurrence of it; deleting a custom item drops its
// definition.
func (e *Engine) DeleteItem(s State, instanceID string) (State, error) {
	inv, it, ok := s.Inventory.Remove(instanceID)
	if !ok {
		return e.refused("DeleteItem", s, fmt.Errorf("%w: %w", ErrValidation, inventory.ErrInstanceNotFound))
	}
	out := s.Clone()
	out.Inventory = inv
	if inventory.IsCustomID(it.ItemDefID) {
		out.CustomItems = slices.DeleteFunc(out.CustomItems, func(d *inventory.ItemDef) bool { return d.ID == it.ItemDefID })
	} else if i := slices.Index(out.ItemIDs, it.ItemDefID); i >= 0 {
		out.ItemIDs = slices.Delete(out.ItemIDs, i, i+1)
	}
	e.Logger.Debug("item deleted", zap.String("op", "DeleteItem"), zap.String("item", it.ItemDefID))
	return e.Recompute(out), nil
}

// AddCustomItem registers a player-made item and puts one instance in the
// backpack. The definition gets a fresh custom id and costs nothing.
func (e *Engine) AddCustomItem(s State, def inventory.ItemDef) (State, *inventory.ItemDef, error) {
	d := def
	d.ID = inventory.CustomIDPrefix + uuid.NewString()
	d.Cost = 0
	if err := d.Validate(); err != nil {
		st, rerr := e.refused("AddCustomItem", s, fmt.Errorf("%w: %w", ErrValidation, err))
		return st, nil, rerr
	}
	out := s.Clone()
	out.CustomItems = append(out.CustomItems, &d)
	out.Inventory = out.Inventory.Stow(inventory.NewInstance(d.ID))
	e.Logger.Debug("custom item added", zap.String("op", "AddCustomItem"), zap.String("item", d.ID), zap.String("name", d.Name))
	return out, &d, nil
}
