package star

import (
	"fmt"
	"os"

	"github.com/starinfo/extension/pkg/core"
	"gopkg.in/yaml.v3"
)

// Site is a named landing site.
type Site struct {
	Name  string `yaml:"name"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Plane int    `yaml:"plane"`
}

// Sites resolves star tiles to landing-site names. A nil *Sites knows no sites.
type Sites struct {
	byPoint map[core.WorldPoint]string
}

type sitesFile struct {
	Sites []Site `yaml:"sites"`
}

// ParseSites reads a YAML landing-site catalog.
func ParseSites(data []byte) (*Sites, error) {
	var f sitesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse landing sites: %w", err)
	}

	sites := &Sites{byPoint: make(map[core.WorldPoint]string, len(f.Sites))}
	for i, site := range f.Sites {
		if site.Name == "" {
			return nil, fmt.Errorf("landing site %d has no name", i)
		}
		sites.byPoint[core.WorldPoint{X: site.X, Y: site.Y, Plane: site.Plane}] = site.Name
	}
	return sites, nil
}

// LoadSites reads a landing-site catalog from path.
func LoadSites(path string) (*Sites, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read landing sites: %w", err)
	}
	return ParseSites(data)
}

// Name returns the site name for p.
func (s *Sites) Name(p core.WorldPoint) (string, bool) {
	if s == nil {
		return "", false
	}
	name, ok := s.byPoint[p]
	return name, ok
}

// Describe returns the site name for p, or its coordinates if the site is unknown.
func (s *Sites) Describe(p core.WorldPoint) string {
	if name, ok := s.Name(p); ok {
		return name
	}
	return p.String()
}

func (s *Sites) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byPoint)
}
