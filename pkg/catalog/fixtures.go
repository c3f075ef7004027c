package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/example/tweenshop/pkg/models"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// Fixtures is the bundled seed data.
type Fixtures struct {
	Products   []models.Product
	Categories []models.Category
	Settings   models.Settings
}

// LoadFixtures decodes the embedded JSON files. Each call returns fresh
// copies.
func LoadFixtures() (*Fixtures, error) {
	var f Fixtures
	if err := decodeFixture("fixtures/products.json", &f.Products); err != nil {
		return nil, err
	}
	if err := decodeFixture("fixtures/categories.json", &f.Categories); err != nil {
		return nil, err
	}
	if err := decodeFixture("fixtures/settings.json", &f.Settings); err != nil {
		return nil, err
	}
	return &f, nil
}

// MustLoadFixtures panics on a broken build.
func MustLoadFixtures() *Fixtures {
	f, err := LoadFixtures()
	if err != nil {
		panic(err)
	}
	return f
}

func decodeFixture(name string, v any) error {
	data, err := fixtureFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode fixture %s: %w", name, err)
	}
	return nil
}

// FixtureJSON returns the raw bytes of a fixture file, e.g. "settings".
func FixtureJSON(name string) ([]byte, error) {
	return fixtureFS.ReadFile("fixtures/" + name + ".json")
}
