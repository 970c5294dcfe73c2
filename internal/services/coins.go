package services

import "github.com/derrickhua/achieve-arcade-sub000/internal/models"

// Coin award tables. Every award and its reversal go through these so the two
// sides of a toggle always move the ledger by the same amount.

var taskCoinValues = map[string]int{
	models.DifficultyEasy:   1,
	models.DifficultyMedium: 2,
	models.DifficultyHard:   3,
}

// Milestone payouts are keyed by the goal's difficulty, with a larger tier for
// the milestone that completes the goal.
var milestoneCoinValues = map[string]int{
	models.DifficultyEasy:         5,
	models.DifficultyMedium:       10,
	models.DifficultyHard:         15,
	models.DifficultyLifeChanging: 25,
}

var finalMilestoneCoinValues = map[string]int{
	models.DifficultyEasy:         10,
	models.DifficultyMedium:       20,
	models.DifficultyHard:         30,
	models.DifficultyLifeChanging: 50,
}

// taskCoinValue returns the payout for completing a task. Tasks scheduled into
// a time block pay 1.5x, floored.
func taskCoinValue(difficulty string, inTimeBlock bool) int {
	base := taskCoinValues[difficulty]
	if inTimeBlock {
		return base * 3 / 2
	}
	return base
}

// blockCoinValue returns the payout for completing a time block of the given
// category and duration (seconds). Only work and leisure blocks pay.
func blockCoinValue(category string, durationSeconds int) int {
	if category != models.CategoryWork && category != models.CategoryLeisure {
		return 0
	}
	switch {
	case durationSeconds <= 3600:
		return 2
	case durationSeconds <= 3*3600:
		return 4
	default:
		return 6
	}
}

func milestoneCoinValue(goalDifficulty string, isFinal bool) int {
	if isFinal {
		return finalMilestoneCoinValues[goalDifficulty]
	}
	return milestoneCoinValues[goalDifficulty]
}
