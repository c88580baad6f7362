package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML document shape: either a top-level archetypes key or
// a bare list of archetypes.
type catalogFile struct {
	Archetypes []RoleArchetype `yaml:"archetypes"`
}

// Load reads the catalog from the given path. A directory is scanned for
// *.yaml/*.yml files (sorted, so synonym precedence is stable across runs);
// a plain file is loaded directly.
func Load(path string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat catalog path: %w", err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files found in %s", path)
	}

	var archetypes []RoleArchetype
	for _, file := range files {
		loaded, err := loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(file), err)
		}

		logger.Debug("loaded catalog file",
			zap.String("file", filepath.Base(file)),
			zap.Int("archetypes", len(loaded)),
		)

		archetypes = append(archetypes, loaded...)
	}

	c := New(archetypes)

	issues := c.Validate()
	for _, issue := range issues.Warnings {
		logger.Warn("catalog validation", zap.String("warning", issue))
	}
	if len(issues.Errors) > 0 {
		return nil, fmt.Errorf("catalog validation failed: %s", strings.Join(issues.Errors, "; "))
	}

	logger.Info("catalog loaded",
		zap.Int("archetypes", c.Len()),
		zap.Int("industries", len(c.Industries())),
		zap.Int("vocabulary_size", c.Vocabulary().Len()),
	)

	return c, nil
}

func loadFile(path string) ([]RoleArchetype, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return normalizeLoaded(doc.Archetypes), nil
	}

	// Not a mapping with an archetypes key; accept a bare list too.
	var list []RoleArchetype
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return normalizeLoaded(list), nil
}

// normalizeLoaded fills derived fields: missing IDs become
// <industry>_<title> in snake case, importance defaults to PREFERRED and is
// upper-cased for lenient authoring.
func normalizeLoaded(archetypes []RoleArchetype) []RoleArchetype {
	for i := range archetypes {
		a := &archetypes[i]
		if strings.TrimSpace(a.ID) == "" {
			a.ID = snake(a.Industry) + "_" + snake(a.Title)
		}
		for j := range a.RequiredSkills {
			rs := &a.RequiredSkills[j]
			rs.Importance = Importance(strings.ToUpper(strings.TrimSpace(string(rs.Importance))))
			if rs.Importance == "" {
				rs.Importance = ImportancePreferred
			}
			if strings.TrimSpace(rs.Category) == "" {
				rs.Category = "general"
			}
		}
	}
	return archetypes
}

func snake(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
