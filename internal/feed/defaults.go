package feed

import "time"

const (
	defaultInterval   = 5 * time.Second
	defaultHistoryCap = 10

	maxAmount         = 500
	energyDeltaRange  = 10
	carbonPerKWh      = 0.5
	maxCommunityDelta = 2.0
	// treeThreshold is the draw above which a tree is planted (30% of ticks).
	treeThreshold = 0.7

	subscriberBuffer = 16
)
