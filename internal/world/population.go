package world

import (
	"github.com/shopspring/decimal"
)

// UnitsPerCreature is how much balance one living creature stands for.
const UnitsPerCreature = 1000

// PopulationLimit bounds any owner's population regardless of configuration.
const PopulationLimit = 1_000_000

var unit = decimal.NewFromInt(UnitsPerCreature)

// DesiredPopulation is max(0, floor(balance/UnitsPerCreature)), capped at ceiling.
// A ceiling outside 1..PopulationLimit falls back to PopulationLimit.
func DesiredPopulation(balance decimal.Decimal, ceiling int) int {
	if !balance.IsPositive() {
		return 0
	}
	ceiling = Ceiling(ceiling)

	n := balance.Div(unit).Floor()
	if n.GreaterThan(decimal.NewFromInt(int64(ceiling))) {
		return ceiling
	}

	return int(n.IntPart())
}

// Ceiling is the effective population cap for a configured ceiling.
func Ceiling(ceiling int) int {
	if ceiling <= 0 || ceiling > PopulationLimit {
		return PopulationLimit
	}
	return ceiling
}
