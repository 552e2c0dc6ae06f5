// Package site reads the mkdocs configuration and post-processes the built site.
package site

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFile = "mkdocs.yml"
	IgnoreFile = ".docsignore"
)

var ErrConfigNotFound = errors.New("mkdocs.yml config file cannot be found")

type Config struct {
	SiteName *string `yaml:"site_name"`
	SiteDir  *string `yaml:"site_dir"`
	DocsDir  *string `yaml:"docs_dir"`
	root     string
}

// ReadConfig loads mkdocs.yml from the project root.
func ReadConfig(root string) (*Config, error) {
	bytes, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w in %s", ErrConfigNotFound, root)
	}
	if err != nil {
		return nil, err
	}

	config := new(Config)
	if err := yaml.Unmarshal(bytes, config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", ConfigFile, err)
	}
	config.root = root

	return config, nil
}

// OutputDir is the absolute directory mkdocs builds into.
func (r *Config) OutputDir() string {
	return r.resolve(r.SiteDir, "site")
}

// SourceDir is the absolute directory of the Markdown sources.
func (r *Config) SourceDir() string {
	return r.resolve(r.DocsDir, "docs")
}

func (r *Config) resolve(value *string, fallback string) string {
	dir := fallback
	if value != nil && *value != "" {
		dir = *value
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(r.root, dir)
}

// ScrubContent drops HTML comments, keeping every other byte as is.
func ScrubContent(content []byte) ([]byte, error) {
	var output bytes.Buffer
	z := html.NewTokenizer(bytes.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return output.Bytes(), nil
			}
			return nil, z.Err()
		case html.CommentToken:
			continue
		default:
			output.Write(z.Raw())
		}
	}
}

// Scrub removes HTML comments from the page at path in place.
func Scrub(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	scrubbed, err := ScrubContent(content)
	if err != nil {
		return fmt.Errorf("unable to scrub %s: %w", path, err)
	}
	if bytes.Equal(content, scrubbed) {
		return nil
	}

	return os.WriteFile(path, scrubbed, info.Mode().Perm())
}

// ScrubAll scrubs every HTML page under dir and returns the visited pages.
func ScrubAll(dir string) ([]string, error) {
	pages, err := doublestar.Glob(os.DirFS(dir), "**/*.html", doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	for i, page := range pages {
		pages[i] = filepath.Join(dir, filepath.FromSlash(page))
		if err := Scrub(pages[i]); err != nil {
			return nil, err
		}
	}

	return pages, nil
}

// IgnorePatterns reads the ignore file of the source dir. Blank lines and
// lines starting with # are skipped. A missing file yields no patterns.
func IgnorePatterns(sourceDir string) ([]string, error) {
	file, err := os.Open(filepath.Join(sourceDir, IgnoreFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimLeft(line, " \t"), "#") {
			continue
		}
		patterns = append(patterns, strings.TrimRight(line, " \t\r"))
	}

	return patterns, scanner.Err()
}

// Ignore deletes from outputDir everything matched by the ignore patterns of
// sourceDir and returns the removed paths.
func Ignore(sourceDir string, outputDir string) ([]string, error) {
	patterns, err := IgnorePatterns(sourceDir)
	if err != nil {
		return nil, err
	}

	var matches []string
	fsys := os.DirFS(outputDir)
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(pattern, "/")
		found, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		matches = append(matches, found...)
	}

	// * children before parents
	slices.Sort(matches)
	matches = slices.Compact(matches)
	slices.Reverse(matches)

	removed := make([]string, 0, len(matches))
	for _, match := range matches {
		path := filepath.Join(outputDir, filepath.FromSlash(match))
		if err := os.RemoveAll(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}

	return removed, nil
}
