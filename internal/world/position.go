package world

const (
	minSpawnPct = 10
	spawnSpread = 80
)

// SpawnPosition keeps new houses away from the map edges: each axis is drawn from [10, 90).
func SpawnPosition(rng Rand) (x, y float64) {
	x = float64(minSpawnPct + rng.IntN(spawnSpread))
	y = float64(minSpawnPct + rng.IntN(spawnSpread))
	return x, y
}

func ClampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}
