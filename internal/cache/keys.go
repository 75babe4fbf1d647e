package cache

import (
	"fmt"

	"github.com/keroda/watchdeck/internal/domain"
)

// Cache key families for library state. Family prefixes are
// parameterized by the tuple that uniquely identifies the queried
// resource; sibling tuples never collide.
const (
	// PrefixEntry is the prefix for item status caches (entry:{user}:{media}:{tmdbID})
	PrefixEntry = "entry:"

	// PrefixMarks is the prefix for season watch mark caches (marks:{user}:{tmdbID}:{season})
	PrefixMarks = "marks:"

	// PrefixListing is the prefix for library listing caches (listing:{user}:{status}:{fav}:{media})
	PrefixListing = "listing:"
)

// EntryKey returns the cache key for one title's library entry.
func EntryKey(userID string, media domain.MediaType, tmdbID int) Key {
	return Key(fmt.Sprintf("%s%s:%s:%d", PrefixEntry, userID, media, tmdbID))
}

// MarksKey returns the cache key for one season's watch mark set.
func MarksKey(userID string, tmdbID, season int) Key {
	return Key(fmt.Sprintf("%s%s:%d:%d", PrefixMarks, userID, tmdbID, season))
}

// ListingKey returns the cache key for one library listing query.
func ListingKey(userID string, f domain.ListingFilter) Key {
	return Key(fmt.Sprintf("%s%s:%s:%t:%s", PrefixListing, userID, f.Status, f.FavoritesOnly, f.MediaType))
}

// ListingPrefix returns the family prefix covering every listing
// variant for a user. Entry mutations invalidate the whole family
// because any listing may contain the mutated title.
func ListingPrefix(userID string) Key {
	return Key(PrefixListing + userID + ":")
}
