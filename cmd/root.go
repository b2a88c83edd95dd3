/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/valpere/edithints/internal/config"
	"github.com/valpere/edithints/internal/logging"
)

var version = "0.1.0"

var (
	cfgFile  string
	v        = config.New()
	settings config.Settings
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "edithints",
	Short: "Keep/change hints for translation memory matches",
	Long: `Marks which words of a reused translation memory match can stay and which
need editing, by round-tripping fragments of the match through machine
translation providers and correlating the answers with the new sentence.

Supported providers: apertium, google, mymemory, ollama, openrouter, systran

Settings come from defaults, an optional --config file and EDITHINTS_*
environment variables. Flags override all of them.

Use "edithints hints --help" for a single recommendation.`,
	Version:       version,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.Load(v, cfgFile)
		if err != nil {
			return err
		}

		level, err := logging.ParseLevel(settings.Log.Level)
		if err != nil {
			return err
		}
		format, err := logging.ParseFormat(settings.Log.Format)
		if err != nil {
			return err
		}
		logger = logging.New(logging.Options{Level: level, Format: format, Writer: cmd.ErrOrStderr()})
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (yaml, toml or json)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.StringSlice("providers", nil, "Translation providers, e.g. apertium,google")
	flags.String("source-lang", "auto", "Source language code, or auto")
	flags.String("target-lang", "auto", "Target language code, or auto")
	flags.Int("max-length", 3, "Longest sub-segment in words")
	flags.Float64("weight", 0.5, "Bias toward keep (1) or change (0)")
	flags.Bool("symmetric", false, "Weigh evidence by both phrase lengths")
	flags.String("oracle", config.OracleGeometric, "Scoring oracle: geometric or llm")
	flags.String("cache-db", "", "SQLite file for provider responses (empty disables)")
	flags.Bool("validate-language", false, "Drop provider responses in the wrong language")

	bind(flags.Lookup("log-level"), "log.level")
	bind(flags.Lookup("log-format"), "log.format")
	bind(flags.Lookup("providers"), "providers")
	bind(flags.Lookup("source-lang"), "source_lang")
	bind(flags.Lookup("target-lang"), "target_lang")
	bind(flags.Lookup("max-length"), "max_subsegment_length")
	bind(flags.Lookup("weight"), "weight")
	bind(flags.Lookup("symmetric"), "symmetric")
	bind(flags.Lookup("oracle"), "oracle")
	bind(flags.Lookup("cache-db"), "cache_db")
	bind(flags.Lookup("validate-language"), "validate_language")
}

func bind(flag *pflag.Flag, key string) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
