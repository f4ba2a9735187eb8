package commands

import (
	"fmt"

	"diagtest/internal/config"
	"diagtest/internal/discovery"
	"diagtest/internal/domain"
	"diagtest/internal/fixture"
	"diagtest/internal/template"
)

// loadFixtures expands the fixture arguments and parses every fixture up
// front, so that a missing template aborts before any case runs.
func loadFixtures(cfg *config.Config, scanner *discovery.Scanner, args []string) ([]*fixture.Fixture, error) {
	paths, err := scanner.Expand(args)
	if err != nil {
		return nil, err
	}

	resolvers := make(map[string]*template.Resolver)
	fixtures := make([]*fixture.Fixture, 0, len(paths))
	for _, path := range paths {
		dir := cfg.GetTemplatesDir(path)
		resolver, ok := resolvers[dir]
		if !ok {
			resolver = template.NewResolver(dir, cfg.TemplateSuffix)
			resolvers[dir] = resolver
		}

		fx, err := fixture.NewParser(resolver, cfg.DefaultTemplate).ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		fixtures = append(fixtures, fx)
	}
	return fixtures, nil
}

// allCases flattens the cases of every fixture, in fixture order
func allCases(fixtures []*fixture.Fixture) []*domain.TestCase {
	var cases []*domain.TestCase
	for _, fx := range fixtures {
		cases = append(cases, fx.Cases...)
	}
	return cases
}

func fixturePaths(fixtures []*fixture.Fixture) []string {
	paths := make([]string, len(fixtures))
	for i, fx := range fixtures {
		paths[i] = fx.Path
	}
	return paths
}
