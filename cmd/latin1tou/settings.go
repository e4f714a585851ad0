// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"fillmore-labs.com/latin1tou/internal/config"
	"fillmore-labs.com/latin1tou/internal/report"
	"fillmore-labs.com/latin1tou/internal/run"
)

const (
	configName = ".latin1tou"
	envPrefix  = "LATIN1TOU"
)

// settings is the effective configuration, merged from flags, environment
// and configuration file.
type settings struct {
	Fix            bool   `yaml:"fix"`
	Diff           bool   `yaml:"diff"`
	Format         string `yaml:"format"`
	Color          string `yaml:"color"`
	Jobs           int    `yaml:"jobs"`
	IgnoreIncludes bool   `yaml:"ignore-includes"`
	Generated      bool   `yaml:"generated"`
	QtMajor        int    `yaml:"qt-major"`
	MaxFileSize    int    `yaml:"max-file-size"`
	Verbose        bool   `yaml:"verbose"`

	configFile string
}

// loadSettings reads the configuration for cmd. Explicit flags override
// environment variables, which override the configuration file.
func loadSettings(cmd *cobra.Command) (settings, error) {
	v := viper.New()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return settings{}, fmt.Errorf("can't bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("can't read configuration: %w", err)
		}
	}

	s := settings{
		Fix:            v.GetBool("fix"),
		Diff:           v.GetBool("diff"),
		Format:         v.GetString("format"),
		Color:          v.GetString("color"),
		Jobs:           v.GetInt("jobs"),
		IgnoreIncludes: v.GetBool("ignore-includes"),
		Generated:      v.GetBool("generated"),
		QtMajor:        v.GetInt("qt-major"),
		MaxFileSize:    v.GetInt("max-file-size"),
		Verbose:        v.GetBool("verbose"),
		configFile:     v.ConfigFileUsed(),
	}

	return s, s.validate()
}

func (s *settings) validate() error {
	if _, err := report.ParseFormat(s.Format); err != nil {
		return err
	}

	switch s.Color {
	case "auto", "on", "off":

	default:
		return fmt.Errorf("unknown color mode %q (want auto, on or off)", s.Color)
	}

	if s.Fix && s.Diff {
		return errors.New("--fix and --diff are mutually exclusive")
	}

	if s.Jobs < 0 {
		return fmt.Errorf("invalid number of jobs %d", s.Jobs)
	}

	return nil
}

// jobs returns the number of parallel workers.
func (s *settings) jobs() int {
	if s.Jobs > 0 {
		return s.Jobs
	}

	return runtime.GOMAXPROCS(0)
}

// colored reports whether output to w is colorized.
func (s *settings) colored(w io.Writer) bool {
	switch s.Color {
	case "on":
		return true

	case "off":
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// options returns the analysis options.
func (s *settings) options() *run.Options {
	r := run.DefaultOptions()

	r.Behavior.Set(config.IgnoreIncludes, s.IgnoreIncludes)
	r.Behavior.Set(config.IncludeGenerated, s.Generated)
	r.QtMajor = s.QtMajor

	if s.MaxFileSize > 0 {
		r.MaxFileSize = s.MaxFileSize
	}

	return r
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			if s.configFile != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", s.configFile) // ignore error
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)

			if err := enc.Encode(s); err != nil {
				return fmt.Errorf("can't encode configuration: %w", err)
			}

			return enc.Close()
		},
	}
}
