package world

import (
	"slices"

	"coinlings/internal/domain/models"
	"github.com/google/uuid"
)

const (
	commonCutoff = 0.60
	rareCutoff   = 0.99

	twoWordNameChance = 0.9
)

var personalities = []models.Personality{
	models.PersonalityCheerful,
	models.PersonalityGrumpy,
	models.PersonalityMysterious,
	models.PersonalityShy,
	models.PersonalityTalkative,
}

var dialogueLines = map[models.Personality][]string{
	models.PersonalityCheerful: {
		"What a wonderful day!",
		"Hey there, buddy! Got any spare change?",
		"I love meeting new people!",
	},
	models.PersonalityGrumpy: {
		"Hmph. Don't bother me.",
		"Back off. I'm busy counting coins.",
		"You again? Fine.",
	},
	models.PersonalityMysterious: {
		"The moon told me secrets last night...",
		"Not everything is as it seems.",
		"Are you listening closely?",
	},
	models.PersonalityShy: {
		"Oh, hello.",
		"Um... do you like collecting coins too?",
		"I don't talk much, but... hi.",
	},
	models.PersonalityTalkative: {
		"Did you hear about the market today? So much happened!",
		"I can tell you stories all day!",
		"Let me tell you about my favorite coin...",
	},
}

const SpritePrefix = "sprites/coinling-sprites"

var spritePools = map[models.Rarity][]string{
	models.RarityCommon: {
		"/sprites/coinling-sprites/common/common.png",
	},
	models.RarityRare: {
		"/sprites/coinling-sprites/rare/rare.png",
		"/sprites/coinling-sprites/rare/rare2.png",
		"/sprites/coinling-sprites/rare/rare3.png",
		"/sprites/coinling-sprites/rare/rare4.png",
		"/sprites/coinling-sprites/rare/rare5.png",
	},
	models.RarityLegendary: {
		"/sprites/coinling-sprites/legendary/legendary.png",
	},
}

var nameParts = []string{
	"Shower", "Heirophant", "Grass", "Golden", "Cafe", "Grand", "Thief", "Toilet",
	"Garbage Bin", "Marvelous", "Spoon", "Falcon", "Shuttle", "Fine", "King", "Thunder",
	"Comet", "Meteor", "Midnight", "Forest", "Bad Dream", "Whisper", "Biscuit", "Sea",
	"Arrow", "Mercury", "Spirit", "Hermit", "Cross", "Bourbon", "Sword", "Cumulonimbus",
	"Clandestine", "Pernicious", "Angel", "Fortress", "Blue Coat", "Raisin", "Deodorant",
	"Super", "Week", "Silent", "Helios", "Fool",
}

var rarities = []models.Rarity{models.RarityCommon, models.RarityRare, models.RarityLegendary}

// Rarities lists every rarity in ascending order of scarcity.
func Rarities() []models.Rarity {
	return slices.Clone(rarities)
}

func Personalities() []models.Personality {
	return slices.Clone(personalities)
}

// DialoguesFor returns a copy of the lines spoken by a personality.
func DialoguesFor(p models.Personality) []string {
	return slices.Clone(dialogueLines[p])
}

func SpritePool(r models.Rarity) []string {
	return slices.Clone(spritePools[r])
}

// RarityForRoll maps a roll in [0,1) onto a rarity: 60% common, 39% rare, 1% legendary.
func RarityForRoll(roll float64) models.Rarity {
	switch {
	case roll < commonCutoff:
		return models.RarityCommon
	case roll < rareCutoff:
		return models.RarityRare
	default:
		return models.RarityLegendary
	}
}

// Factory builds creature records. It never touches storage.
type Factory struct {
	rng Rand
}

func NewFactory(rng Rand) *Factory {
	if rng == nil {
		rng = DefaultRand()
	}
	return &Factory{rng: rng}
}

// Spawn rolls every attribute of a new creature.
func (f *Factory) Spawn(ownerID uuid.UUID) models.Creature {
	return f.Build(ownerID, f.Personality(), "")
}

// Build creates a creature with the given personality. An empty rarity is rolled.
// The container is left unset; the caller places the creature.
func (f *Factory) Build(ownerID uuid.UUID, personality models.Personality, rarity models.Rarity) models.Creature {
	if rarity == "" {
		rarity = RarityForRoll(f.rng.Float64())
	}

	return models.Creature{
		OwnerID:     ownerID,
		Name:        f.Name(),
		Personality: personality,
		Dialogues:   DialoguesFor(personality),
		Rarity:      rarity,
		Sprite:      f.Sprite(rarity),
	}
}

func (f *Factory) Personality() models.Personality {
	return personalities[f.rng.IntN(len(personalities))]
}

func (f *Factory) Sprite(r models.Rarity) string {
	pool := spritePools[r]
	if len(pool) == 0 {
		return ""
	}
	return pool[f.rng.IntN(len(pool))]
}

// Name is one or, nine times out of ten, two words from the name list.
func (f *Factory) Name() string {
	twoWords := f.rng.Float64() < twoWordNameChance

	first := nameParts[f.rng.IntN(len(nameParts))]
	second := nameParts[f.rng.IntN(len(nameParts))]

	if twoWords {
		return first + " " + second
	}
	return first
}
