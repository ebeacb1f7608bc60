package services

import (
	"context"
	"fmt"
	"log/slog"

	"coinlings/internal/domain/dto"
	"coinlings/internal/domain/models"
	"coinlings/internal/repository"
	"coinlings/internal/world"
	"github.com/google/uuid"
)

// SpriteCatalog lists the sprite paths available for a rarity.
type SpriteCatalog interface {
	List(ctx context.Context, r models.Rarity) ([]string, error)
}

type JournalService struct {
	log     *slog.Logger
	catalog SpriteCatalog
	store   repository.World
}

func NewJournalService(log *slog.Logger, catalog SpriteCatalog, store repository.World) *JournalService {
	return &JournalService{
		log:     log,
		catalog: catalog,
		store:   store,
	}
}

// Sprites returns every known sprite grouped by rarity. Every rarity has an entry.
func (s *JournalService) Sprites(ctx context.Context) (dto.SpriteCatalog, error) {
	const op = "services.JournalService.Sprites"

	out := make(dto.SpriteCatalog, len(world.Rarities()))
	for _, r := range world.Rarities() {
		paths, err := s.catalog.List(ctx, r)
		if err != nil {
			s.log.Error("failed to list sprites", slog.String("op", op), slog.String("rarity", string(r)),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if paths == nil {
			paths = []string{}
		}
		out[r] = paths
	}

	return out, nil
}

// Unlocked lists the distinct sprites of every creature the owner ever had, retired ones included.
func (s *JournalService) Unlocked(ctx context.Context, ownerID uuid.UUID) (dto.UnlockedResponse, error) {
	const op = "services.JournalService.Unlocked"

	sprites, err := s.store.UnlockedSprites(ctx, ownerID)
	if err != nil {
		return dto.UnlockedResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	if sprites == nil {
		sprites = []string{}
	}

	return dto.UnlockedResponse{Unlocked: sprites}, nil
}
