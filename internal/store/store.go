package store

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/trim21/errgo"

	"github.com/wtfsayo/beerscape/internal/pkg/random"
)

// Ext is the on-disk extension of a persisted recipe document.
const Ext = ".bsmx"

// FileName returns the deterministic file name for id.
func FileName(id uint32) string {
	return strconv.FormatUint(uint64(id), 10) + Ext
}

// ParseName parses a file name produced by FileName back into its id.
func ParseName(name string) (uint32, bool) {
	stem, ok := strings.CutSuffix(name, Ext)
	if !ok {
		return 0, false
	}

	id, err := strconv.ParseUint(stem, 10, 32)
	if err != nil {
		return 0, false
	}

	return uint32(id), true
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Store persists recipe payloads, one file per id.
type Store struct {
	dir string
}

// Write publishes payload under id's file name. The payload lands in a
// temp sibling first and is renamed into place, a reader never observes
// a partial document.
func (s *Store) Write(id uint32, payload []byte) error {
	final := filepath.Join(s.dir, FileName(id))
	tmp := final + "." + random.Base64Str(8) + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errgo.Wrap(err, "failed to create temp file")
	}

	if _, err = f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errgo.Wrap(err, "failed to write payload")
	}

	if err = f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errgo.Wrap(err, "failed to sync payload")
	}

	if err = f.Close(); err != nil {
		_ = os.Remove(tmp)
		return errgo.Wrap(err, "failed to close temp file")
	}

	if err = os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return errgo.Wrap(err, "failed to publish payload")
	}

	return nil
}
