package models

import (
	"github.com/google/uuid"
	"time"
)

type Personality string

const (
	PersonalityCheerful   Personality = "cheerful"
	PersonalityGrumpy     Personality = "grumpy"
	PersonalityMysterious Personality = "mysterious"
	PersonalityShy        Personality = "shy"
	PersonalityTalkative  Personality = "talkative"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

func (r Rarity) Valid() bool {
	return r == RarityCommon || r == RarityRare || r == RarityLegendary
}

// Creature is a coinling. Retired creatures stay in storage and are never revived.
type Creature struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	OwnerID     uuid.UUID   `json:"owner_id" db:"owner_id"`
	ContainerID uuid.UUID   `json:"container_id" db:"container_id"`
	Name        string      `json:"name" db:"name"`
	Personality Personality `json:"personality" db:"personality"`
	Dialogues   []string    `json:"dialogues" db:"dialogues"`
	Rarity      Rarity      `json:"rarity" db:"rarity"`
	Sprite      string      `json:"sprite" db:"sprite"`
	Retired     bool        `json:"retired" db:"retired"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}
