package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stagehand/internal/config"
	"stagehand/internal/definition"
	"stagehand/pkg/logging"
)

// Scanner reads definition files from a directory.
type Scanner struct{}

// Scan returns every definition found in dir. A directory that does not
// exist yields an empty set. Files that fail to parse are collected into a
// config.ConfigurationErrorCollection; the definitions of the remaining
// files are still returned alongside it.
func (Scanner) Scan(dir string) (definition.Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Discovery", "Discovery directory %s does not exist", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read discovery directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	var (
		set  definition.Set
		errs config.ConfigurationErrorCollection
	)
	for _, name := range files {
		path := filepath.Join(dir, name)
		defs, err := scanFile(path)
		if err != nil {
			errs.Add(*err)
			continue
		}
		logging.Debug("Discovery", "Loaded %d definitions from %s", len(defs), path)
		set = append(set, defs...)
	}

	if errs.HasErrors() {
		return set, errs
	}
	return set, nil
}

func scanFile(path string) (definition.Set, *config.ConfigurationError) {
	f, err := os.Open(path)
	if err != nil {
		ce := config.NewConfigurationError(path, filepath.Base(path), "services", "io", err.Error())
		return nil, &ce
	}
	defer f.Close()

	defs, err := definition.Decode(f)
	if err != nil {
		ce := config.NewConfigurationError(path, filepath.Base(path), "services", "parse", err.Error())
		ce.Suggestions = []string{"each document must be a definition mapping or a list of definitions"}
		return nil, &ce
	}
	return defs, nil
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
