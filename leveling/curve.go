package leveling

// XPRequiredForLevel returns the XP needed to advance from level to level+1.
func XPRequiredForLevel(level int) int {
	if level < 0 {
		return 0
	}
	return 5*level*level + 50*level + 100
}

// CumulativeXPForLevel returns the total XP needed to reach level from zero.
func CumulativeXPForLevel(level int) int {
	total := 0
	for i := 0; i < level; i++ {
		total += XPRequiredForLevel(i)
	}
	return total
}

// Decompose splits a total XP value into the level it reaches and the
// remainder earned inside that level. Negative totals are treated as zero.
func Decompose(totalXP int) (level, xpInLevel int) {
	if totalXP < 0 {
		totalXP = 0
	}
	cumulative := 0
	needed := XPRequiredForLevel(level)
	for cumulative+needed <= totalXP {
		cumulative += needed
		level++
		needed = XPRequiredForLevel(level)
	}
	return level, totalXP - cumulative
}
