package backstory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func namedList(items []Named, fallback string) string {
	names := make([]string, len(items))
	for i, n := range items {
		names[i] = n.Name
		if n.Flaw {
			names[i] += " (Изъян)"
		}
	}
	return joinOr(names, fallback)
}

func signed(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

func raceInfo(r *Race) string {
	if r == nil {
		return "Раса не определена (считайте человеком по умолчанию для контекста)."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Раса: %s.", r.Name)
	if len(r.SpecialAbilities) > 0 {
		fmt.Fprintf(&b, " Ключевые расовые способности: %s.", strings.Join(r.SpecialAbilities, ", "))
	} else {
		b.WriteString(" Обладает типичными для своей расы характеристиками.")
	}
	if len(r.TextualEffects) > 0 {
		fmt.Fprintf(&b, " Особые расовые эффекты/уязвимости: %s.", strings.Join(r.TextualEffects, ", "))
	}
	if len(r.SkillModifiers) > 0 {
		mods := make([]string, len(r.SkillModifiers))
		for i, m := range r.SkillModifiers {
			mods[i] = m.Skill + ": " + signed(m.Modifier)
		}
		fmt.Fprintf(&b, " Прямые расовые модификаторы навыков: %s.", strings.Join(mods, ", "))
	}
	return b.String()
}

func madnessInfo(m *Madness) string {
	if m == nil {
		return "В здравом уме, но напуган и дезориентирован внезапной переменой."
	}
	return fmt.Sprintf("%s (%s): %s", m.Name, m.Kind, m.Description)
}

func apertureInfo(a *Aperture) string {
	if a == nil {
		return "Состояние апертуры и первобытной эссенции не определено."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Талант Апертуры: %s (Мин/Макс для грейда: %d-%d%%, Установленный макс.: %s%%, Восстановление ~%d ч.)\n",
		a.GradeName, a.MinMaxEssence, a.MaxMaxEssence, strconv.FormatFloat(a.SpecificMaxEssence, 'f', -1, 64), a.RecoveryHours)
	fmt.Fprintf(&b, "Ранг Мастера Гу: %s (%s)\n", a.RankName, a.RankColorGroup)
	fmt.Fprintf(&b, "Стадия Эссенции: %s\n", a.StageName)
	fmt.Fprintf(&b, "Первобытная Эссенция: %s (Цвет: %s, Качество: %s)\n", a.EssenceName, a.ColorName, a.Condensation)
	fmt.Fprintf(&b, "Текущее состояние эссенции: %.1f%% / %s%%", a.Essence, strconv.FormatFloat(a.SpecificMaxEssence, 'f', -1, 64))
	if a.ComparisonTarget != "" {
		fmt.Fprintf(&b, "\nКонденсация: 1%% этой эссенции примерно эквивалентен %.1f%% эссенции %s.", a.ComparisonFactor, a.ComparisonTarget)
	}
	return b.String()
}

func physicalState(s Snapshot) string {
	sinceRest := "Неизвестно / Никогда"
	if s.LastLongRestEnd > 0 {
		sinceRest = rules.FormatGameTime(s.GameTimeHours-s.LastLongRestEnd) + " назад"
	}
	return fmt.Sprintf(`Физическое состояние:
  Хитпоинты: %d / %d
  Кости Хитов: %d / %d (d%d)
  Уровень Истощения: %d (0 - нет, 6 - смерть)
  Игровое Время: %s
  Время с последнего продолжительного отдыха: %s`,
		s.CurrentHP, s.MaxHP, s.CurrentHitDice, s.MaxHitDice, s.HitDieType,
		s.Exhaustion, rules.FormatGameTime(s.GameTimeHours), sinceRest)
}

// BuildPrompt renders the Russian backstory prompt for s.
func BuildPrompt(s Snapshot) string {
	attrs := make([]string, len(s.Attributes))
	for i, a := range s.Attributes {
		attrs[i] = fmt.Sprintf("  %s: %d (Мод: %d)", a.Name, a.Score, a.Modifier)
	}

	var b strings.Builder
	b.WriteString("Сгенерируй краткую и мрачную предысторию (около 150-200 слов) для персонажа, который был внезапно телепортирован из своего родного мира (предположим общий контекст средневекового фэнтези или современной Земли, оставайся неопределенным насчет родного мира) в жестокий мир Преподобного Губителя (Reverend Insanity).\n")
	b.WriteString("У него НЕТ предварительных знаний о Гу, совершенствовании, первобытной эссенции или апертурах. Его инстинкты выживания активизируются.\n")
	b.WriteString("Детали персонажа следующие:\n")
	fmt.Fprintf(&b, "Имя: %s\n", s.Name)
	fmt.Fprintf(&b, "Уровень: %d (Бонус Умения: +%d)\n", s.Level, s.ProficiencyBonus)
	b.WriteString(raceInfo(s.Race) + "\n")
	b.WriteString("Итоговые Характеристики (по шкале примерно от 3 до 18, где 10 - средний человек, с указанием модификатора; включают расовые модификаторы):\n")
	b.WriteString(strings.Join(attrs, "\n") + "\n\n")
	fmt.Fprintf(&b, "Владение Навыками (тренированные способности, к которым применяется Бонус Умения): %s\n\n", joinOr(s.Skills, "Не указаны"))
	fmt.Fprintf(&b, "Активные Черты (особые таланты или изъяны, автоматически активные благодаря характеристикам или выбору): %s\n\n", namedList(s.Feats, "Нет активных"))
	fmt.Fprintf(&b, "Примечательные Особенности/Изъяны (Трейты): %s\n\n", namedList(s.Traits, "Пока нет особо выдающихся"))
	fmt.Fprintf(&b, "Стартовые Предметы, которые оказались при нем во время телепортации: %s\n\n", joinOr(s.Items, "Ничего, кроме одежды на теле"))
	fmt.Fprintf(&b, "Текущее Психическое Состояние (если есть специфическое начальное безумие): %s\n\n", madnessInfo(s.Madness))
	b.WriteString(physicalState(s) + "\n\n")
	b.WriteString("Информация об Апертуре и Первобытной Эссенции (если персонаж уже обладает этими знаниями или они проявились инстинктивно):\n")
	b.WriteString(apertureInfo(s.Aperture) + "\n\n")
	b.WriteString(`Предыстория должна сосредоточиться на его немедленном замешательстве, страхе и зарождающемся осознании опасной новой среды.
Как его расовые особенности, итоговые характеристики, навыки, черты, предметы, физическое состояние (HP, истощение) ИЛИ состояние его апертуры/эссенции (включая её относительную "ценность" из-за конденсации, если применимо и известно ему) влияют на его первые несколько мгновений или часов выживания или его немедленные реакции?
Если у персонажа есть изъяны (в чертах или трейтах), как они усугубляют его положение?
Подчеркни шок и борьбу неподготовленного чужака.
Тон должен быть безрадостным, прагматичным и отражать суровые реалии мира Преподобного Губителя.
НЕ давай персонажу никаких особых знаний или способностей, связанных с миром Гу, если только это не подразумевается его расой, апертурой или рангом.
Подчеркни, как его существующие навыки или черты могут быть удивительно полезны или трагически недостаточны в этом новом контексте.
Ответ должен быть НА РУССКОМ ЯЗЫКЕ.
`)
	return b.String()
}
