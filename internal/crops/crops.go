// ABOUTME: Crop catalog with fuzzy hint resolution for the --crop flag
// ABOUTME: Embedded YAML catalog; disk catalogs can replace it via LoadFile

package crops

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Catalog is a list of crop names a hint can resolve against.
type Catalog struct {
	Crops []string `yaml:"crops"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := parse(embeddedCatalog)
	if err != nil {
		// The embedded file ships with the binary; a parse failure here is
		// a build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded crop catalog: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading crop catalog: %w", err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if len(c.Crops) == 0 {
		return nil, fmt.Errorf("catalog lists no crops")
	}
	return &c, nil
}

// Resolve maps a user-supplied hint onto a catalog crop. Exact matches
// (case-insensitive) win; otherwise the best fuzzy match is used. ok is
// false when the hint is empty or matches nothing, in which case the hint
// should be passed through to the service as-is.
func (c *Catalog) Resolve(hint string) (string, bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", false
	}

	lower := strings.ToLower(hint)
	for _, crop := range c.Crops {
		if strings.ToLower(crop) == lower {
			return crop, true
		}
	}

	matches := fuzzy.Find(lower, c.Crops)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}
