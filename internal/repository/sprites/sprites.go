// Package sprites lists the sprite images available for each rarity. Paths are returned
// the way clients request them: "/sprites/coinling-sprites/<rarity>/<file>.png".
package sprites

import (
	"path"
	"sort"
	"strings"

	"coinlings/internal/domain/models"
	"coinlings/internal/world"
)

const ext = ".png"

func rarityPrefix(r models.Rarity) string {
	return world.SpritePrefix + "/" + string(r) + "/"
}

// publicPaths turns object names under a rarity folder into sorted client paths.
func publicPaths(r models.Rarity, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, ext) || strings.Contains(name, "/") {
			continue
		}
		out = append(out, "/"+path.Join(world.SpritePrefix, string(r), name))
	}
	sort.Strings(out)
	return out
}
