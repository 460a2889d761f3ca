// Package scoring implements the C2 card-balance scorer (spec §4.2). The
// formulas here are contractual: spec.md states "tests must reproduce exact
// numerics" for the documented cases, so every constant that spec.md pins a
// value to is reproduced exactly. A handful of drawback-penalty and
// evolution-liability magnitudes are left unpinned by spec.md; those are
// implemented with concrete, documented constants chosen to (a) evaluate to
// zero for a baseline card with no weakness/resistance/ability/evolution
// chain — matching spec.md §8 scenario 6 — and (b) scale in the direction
// spec.md's prose describes. See DESIGN.md for the enumerated assumptions.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/logger"

	"go.uber.org/zap"
)

// Category buckets a Total score per spec §4.2's thresholds.
type Category string

const (
	CategoryVeryWeak  Category = "very_weak"
	CategoryWeak      Category = "weak"
	CategoryBalanced  Category = "balanced"
	CategoryStrong    Category = "strong"
	CategoryTooStrong Category = "too_strong"
)

// Score is the result of scoring a single card.
type Score struct {
	HPStrength     float64
	AttackStrength float64
	AbilityStrength float64
	Total          float64
	Category       Category
}

// ScoringHints carries author-supplied per-card overrides for the
// unspecified-magnitude terms in §4.2 (the "explicit evolution penalty").
// Zero value means "no override".
type ScoringHints struct {
	ExplicitEvolutionPenalty float64
}

var expectedHP = map[card.Stage]float64{
	card.StageBasic:  60,
	card.StageStage1: 80,
	card.StageStage2: 100,
}

const defaultExpectedHP = 120 // used for VMax/other stages, unspecified by §4.2

// EvolveValue implements spec §4.2's evolveValue(stage).
func EvolveValue(stage card.Stage) float64 {
	switch stage {
	case card.StageBasic:
		return 1.0
	case card.StageStage1:
		return 0.5
	case card.StageStage2:
		return 0.33
	default:
		return 1.0
	}
}

// ParseDamage implements spec §4.2's parseDamage(expr, energyBonusCap).
//   - ""          -> 0
//   - "20×"       -> 10          (50% expected value of a coin-flip multiplier)
//   - "N+" (cap k)-> avg(N, N+10k)
//   - "N+M"       -> N+M
//   - "N"         -> N
//
// A damage string combining both "+" and "×" in the same expression is an
// unspecified grammar per spec §9's Open Questions; it is parsed as its
// leading integer only, and the ambiguity is logged rather than guessed at
// silently.
func ParseDamage(expr string, energyBonusCap int) float64 {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0
	}

	hasCoin := strings.Contains(expr, "×")
	hasPlus := strings.Contains(expr, "+")

	if hasCoin && hasPlus {
		logger.Get().Warn("ambiguous damage expression combines '+' and '×'; using leading integer only",
			zap.String("expr", expr))
		return leadingInt(expr)
	}

	if hasCoin {
		n := leadingInt(strings.TrimSuffix(expr, "×"))
		return n * 0.5
	}

	if strings.HasSuffix(expr, "+") {
		n := leadingInt(strings.TrimSuffix(expr, "+"))
		return (n + (n + 10*float64(energyBonusCap))) / 2
	}

	if hasPlus {
		parts := strings.SplitN(expr, "+", 2)
		a := leadingInt(parts[0])
		b := leadingInt(parts[1])
		return a + b
	}

	return leadingInt(expr)
}

func leadingInt(s string) float64 {
	s = strings.TrimSpace(s)
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		} else {
			break
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	v, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return float64(v)
}

// normalize clamps raw/max*100 into [0, 100], per spec §4.2's repeated
// "normalize(x, max)" usage.
func normalize(raw, max float64) float64 {
	if max == 0 {
		return 0
	}
	v := raw / max * 100
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// hpEfficiency computes hp/expected[stage], adjusted by the weakness/
// resistance terms spec §4.2 describes: a ×2 weakness subtracts
// 0.25+0.12·hpEfficiency, a -30 resistance adds 0.30+0.18·hpEfficiency, a
// -20 resistance adds 0.18+0.12·hpEfficiency. The adjustment is applied to
// hpEfficiency itself since that is the only place spec.md's hpStrength
// formula threads it through.
func hpEfficiency(c *card.Card) float64 {
	expected, ok := expectedHP[c.Stage]
	if !ok {
		expected = defaultExpectedHP
	}
	eff := float64(c.HP) / expected

	if c.Weakness != nil && c.Weakness.Modifier == "×2" {
		eff -= 0.25 + 0.12*eff
	}
	if c.Resistance != nil {
		switch c.Resistance.Modifier {
		case "-30":
			eff += 0.30 + 0.18*eff
		case "-20":
			eff += 0.18 + 0.12*eff
		}
	}
	return eff
}

// perAttackRaw computes the raw (pre-normalize) efficiency score for a
// single attack, per spec §4.2's attack-efficiency description.
func perAttackRaw(c *card.Card, a card.Attack) float64 {
	energyCost := a.TotalEnergyCost()
	if energyCost == 0 {
		energyCost = 1 // avoid division by zero for free attacks
	}
	avgDmg := ParseDamage(a.Damage, a.EnergyBonusCap)
	base := avgDmg / float64(energyCost)

	base += drawbackPenalty(c, a, energyCost, base)
	base += opponentStatusBonus(a)

	if energyCost >= 3 && base < 4 {
		base -= 1.5 // energy-efficiency penalty for under-performing >=3-cost attacks
	}
	if base >= 12 {
		base += 2 // efficiency bonus for >=12 dmg/energy
	}

	return base
}

// drawbackPenalty accounts for self-damage (tiered by the fraction of the
// Pokemon's own HP it costs), self-inflicted status, energy/card discards,
// and coin-flip-gated effects (scaled by energy cost and base efficiency),
// and cannot-attack/retreat-next-turn riders. Self-targeting effects never
// grant a bonus (spec §4.2), only ever a penalty or nothing.
func drawbackPenalty(c *card.Card, a card.Attack, energyCost int, base float64) float64 {
	penalty := 0.0

	for _, e := range a.Effects {
		switch e.Type {
		case card.AttackEffectRecoilDamage:
			if c.HP > 0 {
				fraction := float64(e.Amount.Value) / float64(c.HP)
				switch {
				case fraction >= 0.3:
					penalty -= 6
				case fraction >= 0.15:
					penalty -= 3
				default:
					penalty -= 1
				}
			}
		case card.AttackEffectStatusCondition:
			if e.Target == card.TargetSelf {
				penalty -= 2
			}
		case card.AttackEffectDiscardEnergy:
			if e.Target == card.TargetSelf {
				if e.Amount.IsAll {
					penalty -= float64(energyCost)
				} else {
					penalty -= float64(e.Amount.Value)
				}
			}
		}

		hasCoinGate := false
		for _, cond := range e.Conditions {
			if cond.Type == card.ConditionCoinFlipSuccess || cond.Type == card.ConditionCoinFlipFailure {
				hasCoinGate = true
			}
		}
		if hasCoinGate {
			penalty -= 0.5 * float64(energyCost) * (base / 10)
		}
	}

	for _, rule := range c.CardRules {
		if rule == card.RuleCannotAttack || rule == card.RuleCannotRetreat {
			penalty -= 1
		}
	}

	return penalty
}

// opponentStatusBonus awards the fixed bonuses spec §4.2 lists for inflicting
// a status on the defending Pokemon. Self-targeting effects never qualify.
func opponentStatusBonus(a card.Attack) float64 {
	bonus := 0.0
	for _, e := range a.Effects {
		if e.Type != card.AttackEffectStatusCondition || e.Target != card.TargetDefending {
			continue
		}
		switch e.Status {
		case card.StatusPoisoned:
			if e.Amount.Value >= 20 {
				bonus += 4
			} else {
				bonus += 3
			}
		case card.StatusParalyzed, card.StatusConfused:
			bonus += 2
		case card.StatusAsleep:
			bonus += 1.5
		case card.StatusBurned:
			bonus += 1
		}
	}
	return bonus
}

// Score computes the full balance score for a card, per spec §4.2.
func Score(c *card.Card, hints ScoringHints) Score {
	if c.CardType != card.TypePokemon {
		return Score{}
	}

	evolveVal := EvolveValue(c.Stage)
	eff := hpEfficiency(c)
	hpRaw := evolveVal * float64(c.HP) * eff
	hpStrength := normalize(hpRaw, 200)

	var attackRaw float64
	if len(c.Attacks) > 0 {
		sum := 0.0
		for _, a := range c.Attacks {
			sum += perAttackRaw(c, a)
		}
		attackRaw = sum / float64(len(c.Attacks))
	}
	attackStrength := normalize(attackRaw, 50)

	var abilityRaw float64
	hasAbility := c.HasAbility()
	if hasAbility {
		abilityRaw = (1 / evolveVal) * 50
	}
	abilityStrength := normalize(abilityRaw, 150)

	maxTotal := 250.0
	if hasAbility {
		maxTotal = 300.0
	}
	total := normalize(hpRaw+attackRaw+abilityRaw, maxTotal)

	total -= sustainabilityPenalty(c)
	total -= evolutionDependencyPenalty(c.Stage)
	total -= prizeLiabilityPenalty(c.HP)
	total -= hints.ExplicitEvolutionPenalty

	switch {
	case c.RetreatCost == 0:
		total += 5
	case c.RetreatCost == 1:
		total += 2
	case c.RetreatCost >= 3:
		total -= 2
	}

	if c.IsBasic() {
		total += 5
	}

	if total < 0 {
		total = 0
	}

	return Score{
		HPStrength:      hpStrength,
		AttackStrength:  attackStrength,
		AbilityStrength: abilityStrength,
		Total:           total,
		Category:        categorize(total),
	}
}

// sustainabilityPenalty penalizes cards whose only attacks are heavily
// self-damaging, unpinned in magnitude by §4.2; zero for cards with no
// self-damage attacks.
func sustainabilityPenalty(c *card.Card) float64 {
	if c.HP == 0 {
		return 0
	}
	total := 0.0
	for _, a := range c.Attacks {
		for _, e := range a.Effects {
			if e.Type == card.AttackEffectRecoilDamage {
				total += (float64(e.Amount.Value) / float64(c.HP)) * 10
			}
		}
	}
	if total > 15 {
		total = 15
	}
	return total
}

// evolutionDependencyPenalty penalizes the first/second forms of a
// multi-stage line (risk of attrition before the line completes), unpinned
// in magnitude by §4.2.
func evolutionDependencyPenalty(stage card.Stage) float64 {
	switch stage {
	case card.StageStage1:
		return 3
	case card.StageStage2:
		return 6
	default:
		return 0
	}
}

// prizeLiabilityPenalty penalizes high-HP cards for handing the opponent a
// prize when knocked out, unpinned in magnitude by §4.2.
func prizeLiabilityPenalty(hp int) float64 {
	switch {
	case hp >= 150:
		return 3
	case hp >= 100:
		return 1
	default:
		return 0
	}
}

func categorize(total float64) Category {
	switch {
	case total <= 30:
		return CategoryVeryWeak
	case total <= 45:
		return CategoryWeak
	case total <= 54:
		return CategoryBalanced
	case total <= 70:
		return CategoryStrong
	default:
		return CategoryTooStrong
	}
}

// Clamp01To100 is exported for callers that want to display a subscore with
// the same clamping rule scoring uses internally.
func Clamp01To100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
