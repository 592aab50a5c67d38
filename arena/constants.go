package arena

import "math"

// World and protocol constants pinned by the wire contract. Callers may
// override the ones that are also exposed as Grid/Worker configuration
// (Width, Height, CellSize, tick periods); the rest are fixed.
const (
	DefaultWidth  = 1600
	DefaultHeight = 1600
	DefaultCell   = 100

	FixedViewWidth  = 1600
	FixedViewHeight = 900

	PlayerSpeed = 200.0

	DeathGraceMS = int64(1000)

	PlayerTickInterval = 10 // ms
	ObjectTickInterval = 30 // ms

	DefaultWorkers = 4
	DefaultPort    = 12345

	DefaultHealth = 100
	DefaultSize   = 20.0
)

var sqrt2 = math.Sqrt2
