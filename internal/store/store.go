package store

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/mmcdole/marquee/internal/domain"
)

// Backend names accepted by Open
const (
	BackendBolt = "bolt"
	BackendFile = "file"
)

// Open returns the persister for backend rooted at dir.
// An empty dir keeps favorites in memory for the session.
func Open(backend, dir string) (domain.FavoritesPersister, error) {
	switch backend {
	case "", BackendBolt:
		s, err := NewBoltStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFile:
		fsys := afero.NewOsFs()
		if dir == "" {
			fsys = afero.NewMemMapFs()
		}
		s, err := NewFileStore(fsys, dir, DefaultNamespace)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
