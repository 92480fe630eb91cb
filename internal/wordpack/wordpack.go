package wordpack

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
)

//go:embed data/words.json
var defaultPack []byte

var (
	ErrNoCategories      = errors.New("word pack has no categories")
	ErrInvalidCategoryID = errors.New("category id is empty")
	ErrDuplicateCategory = errors.New("duplicate category id")
)

// Load reads a word pack from a JSON file.
func Load(path string) (entity.WordPack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.WordPack{}, fmt.Errorf("failed to read word pack: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a word pack.
func Parse(data []byte) (entity.WordPack, error) {
	var pack entity.WordPack
	if err := json.Unmarshal(data, &pack); err != nil {
		return entity.WordPack{}, fmt.Errorf("failed to decode word pack: %w", err)
	}

	if err := Validate(pack); err != nil {
		return entity.WordPack{}, err
	}

	return pack, nil
}

// Validate checks the pack has at least one category and that category ids are unique.
// Categories without words are allowed; they fail when a round is dealt from them.
func Validate(pack entity.WordPack) error {
	if len(pack.Categories) == 0 {
		return ErrNoCategories
	}

	seen := make(map[string]struct{}, len(pack.Categories))
	for i, category := range pack.Categories {
		if category.ID == "" {
			return fmt.Errorf("%w: category #%d", ErrInvalidCategoryID, i)
		}

		if _, ok := seen[category.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, category.ID)
		}
		seen[category.ID] = struct{}{}
	}

	return nil
}

// Default returns the word pack built into the binary.
func Default() entity.WordPack {
	pack, err := Parse(defaultPack)
	if err != nil {
		panic(fmt.Sprintf("embedded word pack is broken: %v", err))
	}

	return pack
}

// LoadOrDefault loads the pack at path and falls back to the built-in pack when the
// path is empty or the file cannot be used. The returned error explains the fallback.
func LoadOrDefault(path string) (entity.WordPack, error) {
	if path == "" {
		return Default(), nil
	}

	pack, err := Load(path)
	if err != nil {
		return Default(), err
	}

	return pack, nil
}
