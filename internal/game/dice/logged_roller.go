package dice

import (
	"fmt"

	"go.uber.org/zap"
)

// Roller rolls against a Source and logs every roll at debug level, so a
// saving throw or hit-die heal can be audited from the log.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src must be non-nil; a nil logger discards roll logs.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr and logs the result at debug level.
//
// Precondition: expr must come from Parse.
// Postcondition: result logged; returns RollResult or error.
func (r *Roller) Roll(expr Expression) (RollResult, error) {
	result, err := Roll(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}
	r.logger.Debug("dice roll", zap.Stringer("roll", result), zap.Ints("dice", result.Dice))
	return result, nil
}

// RollExpr parses expr and rolls it, logging the result.
//
// Precondition: expr must be a valid dice expression string.
// Postcondition: Returns a RollResult or a parse/roll error.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e)
}

// RollDice rolls count independent dice of the given size with no modifier.
//
// Precondition: count >= 1 and sides >= 2; panics otherwise.
// Postcondition: len(result.Dice) == count and every die is in [1, sides].
func (r *Roller) RollDice(count, sides int) RollResult {
	if count < 1 || sides < 2 {
		panic(fmt.Sprintf("dice: RollDice(%d, %d) precondition violated", count, sides))
	}
	result, err := r.Roll(Expression{
		Raw:   fmt.Sprintf("%dd%d", count, sides),
		Count: count,
		Sides: sides,
	})
	if err != nil {
		panic("dice: RollDice: " + err.Error())
	}
	return result
}

// D20 rolls a single twenty-sided die.
//
// Postcondition: result is in [1, 20].
func (r *Roller) D20() int {
	return r.RollDice(1, 20).Dice[0]
}
