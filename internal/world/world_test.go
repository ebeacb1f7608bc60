package world

import (
	"math/rand/v2"
	"testing"

	"coinlings/internal/domain/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func house(capacity int) models.Container {
	return models.Container{ID: uuid.New(), Name: DefaultContainerName, Capacity: capacity}
}

func TestAllocator_FillsExistingInCreationOrderFirst(t *testing.T) {
	// Arrange
	first, second := house(2), house(4)
	occupancy := map[uuid.UUID]int{first.ID: 1, second.ID: 3}
	alloc := NewAllocator(seeded(), []models.Container{first, second}, occupancy)

	// Act
	p1 := alloc.Place()
	p2 := alloc.Place()
	p3 := alloc.Place()

	// Assert
	assert.False(t, p1.IsStaged())
	assert.Equal(t, first.ID, p1.ContainerID)
	assert.False(t, p2.IsStaged())
	assert.Equal(t, second.ID, p2.ContainerID)
	assert.True(t, p3.IsStaged())
	assert.Equal(t, 0, p3.Staged)
	assert.Equal(t, map[uuid.UUID]int{first.ID: 2, second.ID: 4}, alloc.Occupancy())
}

func TestAllocator_ReusesStagedHousesBeforeStagingAnother(t *testing.T) {
	// Arrange
	alloc := NewAllocator(seeded(), nil, nil)

	// Act
	placements := make([]Placement, 5)
	for i := range placements {
		placements[i] = alloc.Place()
	}

	// Assert
	staged := alloc.Staged()
	require.Len(t, staged, 3)
	assert.Equal(t, []int{0, 0, 1, 1, 2}, []int{
		placements[0].Staged, placements[1].Staged, placements[2].Staged,
		placements[3].Staged, placements[4].Staged,
	})
	assert.Equal(t, []int{2, 2, 1}, alloc.StagedOccupancy())
	for _, s := range staged {
		assert.Equal(t, DefaultCapacity, s.Capacity)
		assert.Equal(t, DefaultContainerName, s.Name)
		assert.GreaterOrEqual(t, s.XPct, 10.0)
		assert.Less(t, s.XPct, 90.0)
		assert.GreaterOrEqual(t, s.YPct, 10.0)
		assert.Less(t, s.YPct, 90.0)
	}
}

func TestAllocator_PacksTightly(t *testing.T) {
	// n creatures into an empty world need exactly ceil(n/2) houses
	for n := 1; n <= 9; n++ {
		alloc := NewAllocator(seeded(), nil, nil)
		for i := 0; i < n; i++ {
			alloc.Place()
		}
		assert.Len(t, alloc.Staged(), (n+1)/2, "n=%d", n)
	}
}

func TestAllocator_SkipsFullHouses(t *testing.T) {
	// Arrange
	full := house(2)
	alloc := NewAllocator(seeded(), []models.Container{full}, map[uuid.UUID]int{full.ID: 2})

	// Act
	p := alloc.Place()

	// Assert
	assert.True(t, p.IsStaged())
	assert.NoError(t, CheckCapacity([]models.Container{full}, alloc.Occupancy()))
}

func TestCheckCapacity(t *testing.T) {
	c := house(2)

	assert.NoError(t, CheckCapacity([]models.Container{c}, map[uuid.UUID]int{c.ID: 2}))
	assert.Error(t, CheckCapacity([]models.Container{c}, map[uuid.UUID]int{c.ID: 3}))
}

func TestValidCapacity(t *testing.T) {
	for _, c := range []int{2, 4, 8, 16, 32, 64, 128} {
		assert.True(t, ValidCapacity(c), c)
	}
	for _, c := range []int{0, 1, 3, 6, 100, 256} {
		assert.False(t, ValidCapacity(c), c)
	}
}

func TestDesiredPopulation(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		ceiling int
		want    int
	}{
		{name: "negative", balance: "-5000", want: 0},
		{name: "zero", balance: "0", want: 0},
		{name: "below one unit", balance: "999.99", want: 0},
		{name: "exact units", balance: "3000", want: 3},
		{name: "floors fractions", balance: "4999.99", want: 4},
		{name: "capped", balance: "50000", ceiling: 10, want: 10},
		{name: "under cap", balance: "5000", ceiling: 10, want: 5},
		{name: "no ceiling still bounded", balance: "1e26", want: PopulationLimit},
		{name: "ceiling above limit", balance: "1e26", ceiling: PopulationLimit * 4, want: PopulationLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DesiredPopulation(decimal.RequireFromString(tt.balance), tt.ceiling)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRarityForRoll(t *testing.T) {
	assert.Equal(t, models.RarityCommon, RarityForRoll(0))
	assert.Equal(t, models.RarityCommon, RarityForRoll(0.5999))
	assert.Equal(t, models.RarityRare, RarityForRoll(0.60))
	assert.Equal(t, models.RarityRare, RarityForRoll(0.9899))
	assert.Equal(t, models.RarityLegendary, RarityForRoll(0.99))
}

func TestFactory_SpawnIsConsistent(t *testing.T) {
	// Arrange
	owner := uuid.New()
	f := NewFactory(seeded())

	for i := 0; i < 200; i++ {
		// Act
		c := f.Spawn(owner)

		// Assert
		assert.Equal(t, owner, c.OwnerID)
		assert.NotEmpty(t, c.Name)
		assert.Contains(t, Personalities(), c.Personality)
		assert.Equal(t, DialoguesFor(c.Personality), c.Dialogues)
		assert.Contains(t, SpritePool(c.Rarity), c.Sprite)
		assert.Equal(t, uuid.Nil, c.ContainerID)
		assert.False(t, c.Retired)
	}
}

func TestFactory_BuildKeepsGivenRarity(t *testing.T) {
	f := NewFactory(seeded())

	c := f.Build(uuid.New(), models.PersonalityShy, models.RarityLegendary)

	assert.Equal(t, models.RarityLegendary, c.Rarity)
	assert.Equal(t, models.PersonalityShy, c.Personality)
	assert.Equal(t, "/sprites/coinling-sprites/legendary/legendary.png", c.Sprite)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-3))
	assert.Equal(t, 42.5, ClampPercent(42.5))
	assert.Equal(t, 100.0, ClampPercent(130))
}
