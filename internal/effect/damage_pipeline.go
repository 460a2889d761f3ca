package effect

import (
	"strconv"
	"strings"

	"tcg-match-engine/internal/card"
)

// ResolveBaseDamage interprets an attack's damage expression against the
// actual runtime inputs for this attack use (spec §3's damage grammar,
// resolved rather than estimated — contrast internal/scoring.ParseDamage,
// which averages the same grammar for balance scoring instead of resolving
// a single concrete outcome).
//
//   - "": 0 damage.
//   - "N×": N times the number of heads in coinHeads (coin-flip multiplicative).
//   - "N+" with energyBonusCap=k: N + 10*min(bonusEnergyAttached, k).
//   - "N+M" (two literals): N+M, fixed.
//   - plain "N": the literal.
func ResolveBaseDamage(expr string, energyBonusCap, bonusEnergyAttached int, coinHeads []bool) int {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0
	}
	hasPlus := strings.Contains(expr, "+")
	hasTimes := strings.Contains(expr, "×")

	switch {
	case hasPlus && hasTimes:
		// Ambiguous combined grammar (spec §9's Open Question): fall back
		// to the leading integer, matching the scoring parser's choice.
		return leadingInt(expr)
	case hasTimes:
		n := leadingInt(strings.TrimSuffix(expr, "×"))
		return n * headsCount(coinHeads)
	case strings.HasSuffix(expr, "+"):
		n := leadingInt(strings.TrimSuffix(expr, "+"))
		bonus := bonusEnergyAttached
		if bonus > energyBonusCap {
			bonus = energyBonusCap
		}
		return n + 10*bonus
	case strings.Contains(expr, "+"):
		parts := strings.SplitN(expr, "+", 2)
		return leadingInt(parts[0]) + leadingInt(parts[1])
	default:
		return leadingInt(expr)
	}
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

// ApplyModifier applies a weakness/resistance raw string ("×2", "-30") to
// damage, per spec §6.2's "strings for compatibility with source data".
func ApplyModifier(damage int, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return damage
	}
	if strings.HasPrefix(raw, "×") {
		mult := leadingInt(strings.TrimPrefix(raw, "×"))
		return damage * mult
	}
	delta, err := strconv.Atoi(raw)
	if err != nil {
		return damage
	}
	return damage + delta
}

// ResolveDamage runs the full pipeline spec §4.6/§8 scenario 3 specifies:
// baseDamage → +coin bonuses → +self-damage modifiers → weakness ×2 →
// resistance −N → damage-prevention caps, clamped ≥0 at every step.
func ResolveDamage(base, coinBonus, selfDamageModifier int, weakness, resistance *card.Modifier, prevention card.AmountExpr) int {
	d := base + coinBonus + selfDamageModifier
	if d < 0 {
		d = 0
	}
	if weakness != nil {
		d = ApplyModifier(d, weakness.Modifier)
	}
	if resistance != nil {
		d = ApplyModifier(d, resistance.Modifier)
	}
	if d < 0 {
		d = 0
	}
	d = applyPrevention(d, prevention)
	if d < 0 {
		d = 0
	}
	return d
}

func applyPrevention(d int, prevention card.AmountExpr) int {
	if prevention.IsAll {
		return 0
	}
	if prevention.Value > 0 {
		return d - prevention.Value
	}
	return d
}
