package scan

import (
	"os"

	"github.com/trim21/errgo"

	"github.com/wtfsayo/beerscape/internal/pkg/bm"
	"github.com/wtfsayo/beerscape/internal/store"
)

// Existing returns the set of recipe ids already persisted in dir, parsed
// from their file names. Files that don't follow the naming convention are
// ignored. An unreadable directory is fatal, the run must not start half
// blind and re-download what is already there.
func Existing(dir string) (*bm.Bitmap, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errgo.Wrap(err, "failed to scan download directory")
	}

	set := bm.New()

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if id, ok := store.ParseName(e.Name()); ok {
			set.Set(id)
		}
	}

	return set, nil
}
