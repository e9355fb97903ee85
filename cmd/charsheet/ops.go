package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gusheet/internal/backstory"
	"github.com/cory-johannsen/gusheet/internal/game/character"
	"github.com/cory-johannsen/gusheet/internal/game/rules"
	"github.com/cory-johannsen/gusheet/internal/savefile"
)

const (
	opShow      = "show"
	opPassTime  = "pass-time"
	opShortRest = "short-rest"
	opLongRest  = "long-rest"
	opSpendHD   = "spend-hd"
	opDamage    = "damage"
	opHeal      = "heal"
	opLevel     = "level"
	opRace      = "race"
	opBackstory = "backstory"
	opArchive   = "archive"
)

// sheetArchive stores encoded saves by character name.
type sheetArchive interface {
	Save(ctx context.Context, name string, data []byte) (int64, error)
}

// opDeps carries the collaborators an operation may need. archive is opened
// lazily so that only the archive operation requires a database.
type opDeps struct {
	engine    *character.Engine
	generator backstory.Generator
	archive   func(ctx context.Context) (sheetArchive, func(), error)
}

type result struct {
	state   character.State
	report  []string
	mutated bool
}

// apply runs one named operation against s.
//
// Postcondition: on error the save must not be written; mutated is true only
// for operations that change the character.
func apply(ctx context.Context, d opDeps, s character.State, op string, n int, id string) (result, error) {
	e := d.engine
	e.Logger.Debug("applying operation", zap.String("op", op), zap.Int("n", n), zap.String("id", id))

	switch op {
	case opShow:
		return result{state: s}, nil

	case opPassTime:
		out, rep, err := e.PassTime(s, n)
		if err != nil {
			return result{}, err
		}
		return result{state: out, report: timeReport(out, rep), mutated: true}, nil

	case opShortRest:
		out, rep, err := e.ShortRest(s)
		if err != nil {
			return result{}, err
		}
		return result{state: out, report: timeReport(out, rep), mutated: true}, nil

	case opLongRest:
		out, rep, err := e.LongRest(s)
		if err != nil {
			return result{}, err
		}
		return result{state: out, report: timeReport(out, rep), mutated: true}, nil

	case opSpendHD:
		out, rep := e.SpendHitDice(s, n)
		if len(rep.Rolls) == 0 {
			return result{state: s, report: []string{"Кости хитов не потрачены."}}, nil
		}
		line := fmt.Sprintf("Броски: %v, восстановлено хитов: %d", rep.Rolls, rep.Healed)
		return result{state: out, report: []string{line}, mutated: true}, nil

	case opDamage:
		if n <= 0 {
			return result{}, fmt.Errorf("%s: -n must be positive, got %d", op, n)
		}
		return result{state: e.Damage(s, n), mutated: true}, nil

	case opHeal:
		if n <= 0 {
			return result{}, fmt.Errorf("%s: -n must be positive, got %d", op, n)
		}
		return result{state: e.Heal(s, n), mutated: true}, nil

	case opLevel:
		return result{state: e.SetLevel(s, n), mutated: true}, nil

	case opRace:
		out, err := e.SetRace(s, id)
		if err != nil {
			return result{}, err
		}
		return result{state: out, mutated: true}, nil

	case opBackstory:
		text, err := d.generator.Generate(ctx, e.Snapshot(s))
		if err != nil {
			return result{}, err
		}
		return result{state: e.SetBackstory(s, text), report: []string{text}, mutated: true}, nil

	case opArchive:
		data, err := savefile.Encode(e, s)
		if err != nil {
			return result{}, err
		}
		archive, closeArchive, err := d.archive(ctx)
		if err != nil {
			return result{}, fmt.Errorf("opening archive: %w", err)
		}
		defer closeArchive()
		sheetID, err := archive.Save(ctx, s.Name, data)
		if err != nil {
			return result{}, err
		}
		return result{state: s, report: []string{fmt.Sprintf("Лист %q сохранён в архив (#%d).", s.Name, sheetID)}}, nil

	default:
		return result{}, fmt.Errorf("unknown operation %q", op)
	}
}

func timeReport(s character.State, rep character.TimeReport) []string {
	lines := []string{
		fmt.Sprintf("Прошло часов: %d, время: %s", rep.Hours, rules.FormatGameTime(s.Resources.GameTimeHours)),
	}
	if rep.EssenceGained > 0 {
		lines = append(lines, fmt.Sprintf("Восстановлено эссенции: %.2f", rep.EssenceGained))
	}
	if sv := rep.Save; sv != nil {
		outcome := "успех"
		if sv.Failed {
			outcome = "провал"
		}
		lines = append(lines, fmt.Sprintf("Спасбросок Телосложения против истощения: %d (%+d) = %d против СЛ %d, %s",
			sv.Roll, sv.Bonus, sv.Total(), sv.DC, outcome))
	}
	return lines
}
