package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxCatalogFileSize = 4 * 1024 * 1024 // 4MB

// Load returns the catalog to rank against. An empty path returns the
// builtin catalog; otherwise the YAML file at path replaces it entirely.
//
// File format:
//
//	candidates:
//	  - id: tpl-custom
//	    name: Custom
//	    category: landing
//	    complexity: simple
//	    layout: hero
//	    colors: {primary: "#000", ...}
//	    components: [hero, footer]
//	    base_quality: 7
func Load(path string) ([]Candidate, error) {
	if path == "" {
		return Builtin(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog file: %w", err)
	}
	if info.Size() > maxCatalogFileSize {
		return nil, fmt.Errorf("catalog file too large: %d bytes (max %d)", info.Size(), maxCatalogFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	var file struct {
		Candidates []Candidate `koanf:"candidates"`
	}
	if err := k.Unmarshal("", &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	if len(file.Candidates) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no candidates", path)
	}

	seen := make(map[string]bool, len(file.Candidates))
	for _, c := range file.Candidates {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry: %w", err)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate candidate id %q", c.ID)
		}
		seen[c.ID] = true
	}

	return file.Candidates, nil
}
