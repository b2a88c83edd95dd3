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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/valpere/edithints/internal/annotation"
	"github.com/valpere/edithints/internal/controller"
	"github.com/valpere/edithints/internal/oracle"
	"github.com/valpere/edithints/internal/segment"
	"github.com/valpere/edithints/internal/translator"
)

type replayMatch struct {
	Source      string `yaml:"source"`
	Translation string `yaml:"translation"`
}

type replayEntry struct {
	Sentence string        `yaml:"sentence"`
	Matches  []replayMatch `yaml:"matches"`
}

type replayEdit struct {
	Offset int    `yaml:"offset"`
	Delete int    `yaml:"delete"`
	Insert string `yaml:"insert"`
}

// replayStep holds exactly one action.
type replayStep struct {
	Entry     *replayEntry  `yaml:"entry"`
	Match     *int          `yaml:"match"`
	Providers *[]string     `yaml:"providers"`
	Toggle    *bool         `yaml:"toggle"`
	Edit      *replayEdit   `yaml:"edit"`
	Wait      time.Duration `yaml:"wait"`
}

type replayScript struct {
	replayEntry `yaml:",inline"`
	Steps       []replayStep `yaml:"steps"`
}

func loadReplayScript(path string) (*replayScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var script replayScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &script, nil
}

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Drive the hint controller with a scripted editor session",
	Long: `Replays a YAML script of editor events against the hint controller and
prints every mark set the editor would paint.

Script format:
  sentence: the dog sat
  matches:
    - source: the cat sat
      translation: el gato se sentó
  steps:
    - match: 0
    - wait: 2s
    - edit: {offset: 3, delete: 4, insert: perro}
    - providers: [apertium]
    - toggle: false
    - entry: {sentence: ..., matches: [...]}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := loadReplayScript(args[0])
		if err != nil {
			return err
		}
		providers, err := buildProviders(settings)
		if err != nil {
			return err
		}
		rec, closeCache, err := buildRecommender(settings, logger)
		if err != nil {
			return err
		}
		defer closeCache()

		return runReplay(cmd.Context(), script, replayOptions{
			Runner:    rec,
			Providers: providers,
			Build: func(names []string) (*translator.Set, error) {
				s := settings
				s.Providers = names
				return buildProviders(s)
			},
			Settings: passSettings(settings),
			Enabled:  settings.Enabled,
			Out:      cmd.OutOrStdout(),
			Logger:   logger,
		})
	},
}

type replayOptions struct {
	Runner    controller.PassRunner
	Providers *translator.Set
	Build     func(names []string) (*translator.Set, error)
	Settings  controller.Settings
	Enabled   bool
	Out       io.Writer
	Logger    *slog.Logger
}

func runReplay(ctx context.Context, script *replayScript, opts replayOptions) error {
	host := &scriptedHost{out: opts.Out, selected: -1}
	host.setEntry(script.replayEntry)

	c := controller.New(controller.Options{
		Host:        host,
		Sink:        host,
		Recommender: opts.Runner,
		Settings:    opts.Settings,
		Providers:   opts.Providers,
		Enabled:     opts.Enabled,
		Logger:      opts.Logger,
	})

	runCtx, cancel := context.WithCancel(ctx)
	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(runCtx) }()
	defer func() {
		cancel()
		<-runErr
	}()

	for i, st := range script.Steps {
		ev, err := host.step(ctx, st, opts.Build)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if ev == nil {
			continue
		}
		if err := c.Post(ctx, ev); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// scriptedHost plays the editor: it owns the entry, the selected match and
// the translation buffer, and prints whatever the controller renders.
type scriptedHost struct {
	mu       sync.Mutex
	out      io.Writer
	entry    replayEntry
	selected int
	buffer   []rune
}

func (h *scriptedHost) ActiveMatch() (controller.Match, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.selected < 0 || h.selected >= len(h.entry.Matches) {
		return controller.Match{}, false
	}
	m := h.entry.Matches[h.selected]
	return controller.Match{Index: h.selected, Source: m.Source, Translation: m.Translation}, true
}

func (h *scriptedHost) ActiveSourceText() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entry.Sentence
}

func (h *scriptedHost) Render(marks []annotation.Mark) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(marks) == 0 {
		fmt.Fprintln(h.out, "marks: none")
		return
	}
	parts := make([]string, len(marks))
	for i, m := range marks {
		text := ""
		if m.End <= len(h.buffer) {
			text = string(h.buffer[m.Start:m.End])
		}
		parts[i] = fmt.Sprintf("%s[%d,%d)=%s", text, m.Start, m.End, m.Class)
	}
	fmt.Fprintf(h.out, "marks: %s\n", strings.Join(parts, " "))
}

func (h *scriptedHost) PaintMatch(m controller.Match, words []segment.Word, classes []oracle.Classification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text + "=" + classes[i].String()
	}
	fmt.Fprintf(h.out, "match %d: %s\n", m.Index, strings.Join(parts, " "))
}

func (h *scriptedHost) ClearMatch() {}

func (h *scriptedHost) setEntry(e replayEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entry = e
	h.selected = -1
	h.buffer = nil
}

func (h *scriptedHost) printf(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, format, args...)
}

// step applies st to the host and returns the event to post, if any.
func (h *scriptedHost) step(ctx context.Context, st replayStep, build func([]string) (*translator.Set, error)) (controller.Event, error) {
	switch {
	case st.Entry != nil:
		h.setEntry(*st.Entry)
		h.printf("> entry %q\n", st.Entry.Sentence)
		return controller.EntryActivated{}, nil

	case st.Match != nil:
		idx := *st.Match
		h.mu.Lock()
		if idx >= 0 && idx < len(h.entry.Matches) {
			h.selected = idx
			h.buffer = []rune(h.entry.Matches[idx].Translation)
		} else {
			h.selected = -1
		}
		h.mu.Unlock()
		h.printf("> match %d\n", idx)
		return controller.MatchSelectionChanged{Index: idx}, nil

	case st.Providers != nil:
		set, err := build(*st.Providers)
		if err != nil {
			return nil, err
		}
		h.printf("> providers %v\n", set.Names())
		return controller.ProviderSetChanged{Providers: set}, nil

	case st.Toggle != nil:
		h.printf("> toggle %v\n", *st.Toggle)
		return controller.FeatureToggled{Enabled: *st.Toggle}, nil

	case st.Edit != nil:
		e := st.Edit
		h.mu.Lock()
		if e.Offset < 0 || e.Delete < 0 || e.Offset+e.Delete > len(h.buffer) {
			n := len(h.buffer)
			h.mu.Unlock()
			return nil, fmt.Errorf("edit [%d,%d) outside buffer of length %d", e.Offset, e.Offset+e.Delete, n)
		}
		rest := append([]rune(e.Insert), h.buffer[e.Offset+e.Delete:]...)
		h.buffer = append(h.buffer[:e.Offset:e.Offset], rest...)
		text := string(h.buffer)
		h.mu.Unlock()
		h.printf("> edit %q\n", text)
		return controller.EditEvent{Edit: annotation.Edit{
			Offset:   e.Offset,
			Deleted:  e.Delete,
			Inserted: utf8.RuneCountInString(e.Insert),
		}}, nil

	case st.Wait > 0:
		select {
		case <-time.After(st.Wait):
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, errors.New("empty step")
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

