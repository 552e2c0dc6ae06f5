package crank

import (
	"path/filepath"
	"time"

	"github.com/bsthun/gut"
)

type Config struct {
	Crates   *CratesConfig   `yaml:"crates" validate:"required"`
	Compiler *CompilerConfig `yaml:"compiler" validate:"required"`
	Api      *ApiConfig      `yaml:"api" validate:"required"`
	Readme   *ReadmeConfig   `yaml:"readme" validate:"required"`
	Grammar  *GrammarConfig  `yaml:"grammar" validate:"required"`
	Release  *ReleaseConfig  `yaml:"release" validate:"required"`
	Lint     *LintConfig     `yaml:"lint" validate:"required"`
	Publish  *PublishConfig  `yaml:"publish"`
	Browser  *BrowserConfig  `yaml:"browser" validate:"required"`
}

type CratesConfig struct {
	Dir *string `yaml:"dir" validate:"required"`
	Bin *string `yaml:"bin" validate:"required"`
	Lib *string `yaml:"lib" validate:"required"`
}

type CompilerConfig struct {
	MinVersion *string `yaml:"min_version" validate:"required"`
}

type ApiConfig struct {
	Sources []string `yaml:"sources" validate:"required,min=1"`
	Exclude []string `yaml:"exclude"`
	Target  *string  `yaml:"target" validate:"required"`
	Begin   *string  `yaml:"begin" validate:"required"`
	End     *string  `yaml:"end" validate:"required"`
	Parser  *string  `yaml:"parser" validate:"required,oneof=lexical syntax"`
}

type ReadmeConfig struct {
	Path    *string `yaml:"path" validate:"required"`
	Heading *string `yaml:"heading" validate:"required"`
}

type GrammarConfig struct {
	Dir *string `yaml:"dir" validate:"required"`
}

type ReleaseConfig struct {
	Command *string `yaml:"command" validate:"required"`
}

type LintConfig struct {
	Command *string `yaml:"command" validate:"required"`
}

type PublishConfig struct {
	Endpoint  *string `yaml:"endpoint" validate:"required,url"`
	Bucket    *string `yaml:"bucket" validate:"required"`
	AccessKey *string `yaml:"access_key" validate:"required"`
	SecretKey *string `yaml:"secret_key" validate:"required"`
	Prefix    *string `yaml:"prefix"`
}

type BrowserConfig struct {
	Delay *time.Duration `yaml:"delay" validate:"required"`
}

// Manifest returns the Cargo.toml path of the named crate.
func (r *Config) Manifest(crate string) string {
	return filepath.Join(*r.Crates.Dir, crate, "Cargo.toml")
}

// Default mirrors the layout of the rush repository.
func Default() *Config {
	delay := 1 * time.Second
	return &Config{
		Crates: &CratesConfig{
			Dir: gut.Ptr("crates"),
			Bin: gut.Ptr("rush"),
			Lib: gut.Ptr("librush"),
		},
		Compiler: &CompilerConfig{
			MinVersion: gut.Ptr("1.10.0"),
		},
		Api: &ApiConfig{
			Sources: []string{"crates/librush/src/eval/api/**/*.rs"},
			Exclude: []string{"crates/librush/src/eval/api/mod.rs"},
			Target:  gut.Ptr("docs/api.md"),
			Begin:   gut.Ptr("<!-- BEGIN API -->"),
			End:     gut.Ptr("<!-- END API -->"),
			Parser:  gut.Ptr("lexical"),
		},
		Readme: &ReadmeConfig{
			Path:    gut.Ptr("README.md"),
			Heading: gut.Ptr("# Usage"),
		},
		Grammar: &GrammarConfig{
			Dir: gut.Ptr("crates/librush/src/parse/syntax"),
		},
		Release: &ReleaseConfig{
			Command: gut.Ptr("./tools/release"),
		},
		Lint: &LintConfig{
			Command: gut.Ptr("go vet ./..."),
		},
		Publish: nil,
		Browser: &BrowserConfig{
			Delay: &delay,
		},
	}
}
