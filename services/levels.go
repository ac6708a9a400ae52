package services

// XPPerLevel is the flat cost of every level. Cumulative XP to reach level N
// is (N-1)*XPPerLevel: level 2 at 1000, level 3 at 2000, and so on. The same
// policy applies to the global total and to each category's XP.
const XPPerLevel = 1000

// LevelInfo is the derived position for one XP total.
type LevelInfo struct {
	Level          int   `json:"level"`
	XPAtLevelStart int64 `json:"xp_at_level_start"`
	XPToNextLevel  int64 `json:"xp_to_next_level"`
}

// LevelFor derives the level bracket for totalXP. It is monotonic
// non-decreasing and assumes totalXP >= 0 (callers validate amounts before
// XP ever goes negative).
func LevelFor(totalXP int64) LevelInfo {
	level := int(totalXP/XPPerLevel) + 1
	start := int64(level-1) * XPPerLevel
	return LevelInfo{
		Level:          level,
		XPAtLevelStart: start,
		XPToNextLevel:  start + XPPerLevel - totalXP,
	}
}
