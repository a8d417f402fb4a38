package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scaffoldr/scaffoldr/internal/branding"
	"github.com/scaffoldr/scaffoldr/internal/emit"
	"github.com/scaffoldr/scaffoldr/internal/generator"
	"github.com/scaffoldr/scaffoldr/internal/registry"
	"github.com/spf13/viper"
)

// Settings is the resolved configuration for one invocation.
type Settings struct {
	Dest           string
	Overwrite      emit.Mode
	Prompt         bool
	CheckDirectory bool
	GeneratorsPath []string
	Verbose        bool
}

// Current reads the settings from Viper. Dest defaults to the working
// directory and is made absolute.
func Current() (Settings, error) {
	mode, err := emit.ParseMode(viper.GetString(KeyOverwrite))
	if err != nil {
		return Settings{}, err
	}

	dest := viper.GetString(KeyDest)
	if dest == "" {
		if dest, err = os.Getwd(); err != nil {
			return Settings{}, fmt.Errorf("resolving working directory: %w", err)
		}
	}
	if dest, err = filepath.Abs(dest); err != nil {
		return Settings{}, fmt.Errorf("resolving destination %s: %w", dest, err)
	}

	return Settings{
		Dest:           dest,
		Overwrite:      mode,
		Prompt:         viper.GetBool(KeyPrompt),
		CheckDirectory: viper.GetBool(KeyCheckDirectory),
		GeneratorsPath: splitPath(viper.GetStringSlice(KeyGeneratorsPath)),
		Verbose:        viper.GetBool(KeyVerbose),
	}, nil
}

// splitPath accepts both a YAML list and an OS path-list string
// ("a:b" on Unix) for generators-path.
func splitPath(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range filepath.SplitList(v) {
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Options returns the generator run options for s.
func (s Settings) Options() generator.Options {
	return generator.Options{
		DestinationRoot: s.Dest,
		OverwritePolicy: s.Overwrite,
		PromptEnabled:   s.Prompt,
		CheckDirectory:  s.CheckDirectory,
	}
}

// Sources returns the generator search sources in priority order:
// the destination's .scaffoldr/generators, then each generators-path entry,
// then ~/.scaffoldr/generators.
func (s Settings) Sources() []registry.Source {
	sources := []registry.Source{{
		Name:     "project",
		BasePath: filepath.Join(s.Dest, branding.HomeDir(), "generators"),
	}}
	for i, p := range s.GeneratorsPath {
		sources = append(sources, registry.Source{
			Name:     fmt.Sprintf("path[%d]", i),
			BasePath: p,
		})
	}
	sources = append(sources, registry.Source{
		Name:     "user",
		BasePath: filepath.Join(Dir(), "generators"),
	})
	return sources
}
