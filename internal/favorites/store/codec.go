package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tair/storefront/internal/favorites/domain"
)

// decodeFavorites parses a slot value. An absent value is the empty
// collection; anything that is not a JSON array of summaries with unique
// integer ids is a StorageReadError, including a stored JSON null.
func decodeFavorites(key string, blob []byte, found bool) (domain.Favorites, error) {
	if !found {
		return domain.Favorites{}, nil
	}

	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 {
		return nil, &domain.StorageReadError{
			Key: key,
			Err: fmt.Errorf("%w: empty value", domain.ErrMalformedFavorites),
		}
	}

	var favs domain.Favorites
	if err := json.Unmarshal(trimmed, &favs); err != nil {
		return nil, &domain.StorageReadError{
			Key: key,
			Err: fmt.Errorf("%w: %w", domain.ErrMalformedFavorites, err),
		}
	}
	if favs == nil {
		return nil, &domain.StorageReadError{
			Key: key,
			Err: fmt.Errorf("%w: value is not an array", domain.ErrMalformedFavorites),
		}
	}

	if id, dup := favs.DuplicateID(); dup {
		return nil, &domain.StorageReadError{
			Key: key,
			Err: fmt.Errorf("%w: duplicate id %d", domain.ErrMalformedFavorites, id),
		}
	}

	return favs, nil
}

func encodeFavorites(key string, favs domain.Favorites) ([]byte, error) {
	if favs == nil {
		favs = domain.Favorites{}
	}
	blob, err := json.Marshal(favs)
	if err != nil {
		return nil, &domain.StorageWriteError{Key: key, Err: fmt.Errorf("encode favorites: %w", err)}
	}
	return blob, nil
}
