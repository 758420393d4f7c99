package session

import (
	"github.com/codude/codude/internal/config"
	"github.com/codude/codude/internal/recipes"
)

// Index pairs the recency and favorites lists. Both are keyed by recipe
// identity and live independently of the file-backed recipe store; store
// mutations notify the index through Rekey and Remove so the identities stay
// consistent across edits.
type Index struct {
	Recents   *RecencyList
	Favorites *FavoritesList
}

// NewIndex builds an empty index with the given capacities.
func NewIndex(maxRecents int, maxFavorites int) *Index {
	return &Index{
		Recents:   NewRecencyList(maxRecents, nil),
		Favorites: NewFavoritesList(maxFavorites, nil),
	}
}

// LoadIndex reconstructs the bounded collections from a configuration
// snapshot. When a capacity shrank since last run the excess entries are
// dropped deterministically on load, not rejected.
func LoadIndex(cfg config.Session) *Index {
	return &Index{
		Recents:   NewRecencyList(cfg.MaxRecents, identitiesFromPairs(cfg.RecentlyUsed)),
		Favorites: NewFavoritesList(cfg.MaxFavorites, identitiesFromPairs(cfg.Favorites)),
	}
}

// Touch records a use of the identity in the recency list.
func (ix *Index) Touch(id recipes.Identity) { ix.Recents.Touch(id) }

// Toggle flips the identity's favorite state, rejecting an add at capacity.
func (ix *Index) Toggle(id recipes.Identity) (added bool, err error) {
	return ix.Favorites.Toggle(id)
}

// Rekey replaces an identity in both lists, preserving positions. Called after
// a successful recipe edit.
func (ix *Index) Rekey(oldID recipes.Identity, newID recipes.Identity) {
	ix.Recents.Rekey(oldID, newID)
	ix.Favorites.Rekey(oldID, newID)
}

// Remove drops an identity from both lists. Called after a successful recipe
// delete.
func (ix *Index) Remove(id recipes.Identity) {
	ix.Recents.Remove(id)
	ix.Favorites.Remove(id)
}

// Snapshot serializes both lists into the persisted pair form.
func (ix *Index) Snapshot() (recentlyUsed [][2]string, favorites [][2]string) {
	return pairsFromIdentities(ix.Recents.Items()), pairsFromIdentities(ix.Favorites.Items())
}

func identitiesFromPairs(pairs [][2]string) []recipes.Identity {
	out := make([]recipes.Identity, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, recipes.IdentityFromPair(pair))
	}
	return out
}

func pairsFromIdentities(ids []recipes.Identity) [][2]string {
	out := make([][2]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Pair())
	}
	return out
}
