package synchronizer

import (
	"os"
	"path/filepath"

	"github.com/bazaar-realm/bazaar-client/internal/cache"
)

// removeBody deletes only the body file of key, leaving metadata in place.
func removeBody(c *cache.Coordinator, key cache.Key) error {
	matches, err := filepath.Glob(filepath.Join(c.Root(), "*", key.Version, key.Name+".bin"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return err
		}
	}
	return nil
}
