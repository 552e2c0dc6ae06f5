package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bsthun/gut"
	"github.com/go-playground/validator/v10"
	"go.scnd.dev/open/crank"
	"gopkg.in/yaml.v3"
)

const ConfigFile = "crank.yml"

var ErrUnresolved = errors.New("unresolved template expression")

var templateRegex = regexp.MustCompile(`\{\{\s*([^}]+)\s*}}`)

// Config loads crank.yml from directory on top of the defaults. A missing
// file yields the defaults unchanged.
func Config(directory string) (*crank.Config, error) {
	config := crank.Default()

	// * read config file
	configPath := filepath.Join(directory, ConfigFile)
	bytes, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration file: %w", err)
	}

	// * process template replacements
	templated, err := Template(bytes)
	if err != nil {
		return nil, fmt.Errorf("unable to expand configuration file: %w", err)
	}

	// * parse config
	if err := yaml.Unmarshal(templated, config); err != nil {
		return nil, fmt.Errorf("unable to parse configuration file: %w", err)
	}

	// * validate config
	if err := gut.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", ValidationMessage(err))
	}

	return config, nil
}

func ValidationMessage(err error) error {
	var validatorErr validator.ValidationErrors
	if !errors.As(err, &validatorErr) {
		return err
	}

	lists := make([]string, 0, len(validatorErr))
	for _, item := range validatorErr {
		lists = append(lists, item.Namespace()+" ("+item.Tag()+")")
	}

	return errors.New("validation failed on " + strings.Join(lists, ", "))
}

// Template expands {{ env.NAME || fallback }} expressions. Alternatives are
// tried left to right. An env reference resolves when the variable is set and
// not empty, any other alternative is a YAML literal inserted as written.
func Template(content []byte) ([]byte, error) {
	unresolved := make([]string, 0)
	expanded := templateRegex.ReplaceAllFunc(content, func(match []byte) []byte {
		expression := strings.TrimSpace(string(templateRegex.FindSubmatch(match)[1]))
		value, ok := Resolve(expression)
		if !ok {
			unresolved = append(unresolved, expression)
		}
		return []byte(value)
	})
	if len(unresolved) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(unresolved, ", "))
	}

	return expanded, nil
}

// Resolve evaluates one template expression.
func Resolve(expression string) (string, bool) {
	for _, part := range strings.Split(expression, "||") {
		part = strings.TrimSpace(part)
		name, env := strings.CutPrefix(part, "env.")
		if !env {
			if part != "" {
				return part, true
			}
			continue
		}
		if value := os.Getenv(name); value != "" {
			return value, true
		}
	}

	return "", false
}
