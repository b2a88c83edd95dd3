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
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/edithints/internal/controller"
)

var (
	hintSentence    string
	hintMatchSource string
	hintMatchTarget string
	hintJSON        bool
)

var hintsCmd = &cobra.Command{
	Use:   "hints",
	Short: "Compute keep/change hints for one match",
	Long: `Runs one recommendation pass: every fragment of the match is translated
by the configured providers in both directions, and each word of the match
translation is labelled keep, change or left without a hint.

Example:
  edithints hints --providers apertium --source-lang en --target-lang es \
    --sentence "the dog sat" --match-source "the cat sat" \
    --match-target "el gato se sentó"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(settings.Providers) == 0 {
			return fmt.Errorf("no providers configured, use --providers")
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

		res, err := rec.Recommend(cmd.Context(), controller.PassInput{
			Sentence:  hintSentence,
			Match:     controller.Match{Source: hintMatchSource, Translation: hintMatchTarget},
			Providers: providers,
			Settings:  passSettings(settings),
		})
		if err != nil {
			return fmt.Errorf("recommendation failed: %w", err)
		}

		if hintJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		return printHints(cmd.OutOrStdout(), res)
	},
}

func printHints(out io.Writer, res controller.Result) error {
	if res.Classes == nil {
		fmt.Fprintf(out, "No recommendation (%d evidence pairs).\n", res.Evidence)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OFFSET\tWORD\tHINT")
	for i, word := range res.Words {
		fmt.Fprintf(w, "%d\t%s\t%s\n", word.Offset, word.Text, res.Classes[i])
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(hintsCmd)

	hintsCmd.Flags().StringVar(&hintSentence, "sentence", "", "New source sentence")
	hintsCmd.Flags().StringVar(&hintMatchSource, "match-source", "", "Source text of the translation memory match")
	hintsCmd.Flags().StringVar(&hintMatchTarget, "match-target", "", "Translation of the translation memory match")
	hintsCmd.Flags().BoolVar(&hintJSON, "json", false, "Print the result as JSON")

	hintsCmd.MarkFlagRequired("sentence")
	hintsCmd.MarkFlagRequired("match-source")
	hintsCmd.MarkFlagRequired("match-target")
}
