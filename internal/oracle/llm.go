package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrLabelCount is returned when the model labels a different number of
// words than the match target has.
var ErrLabelCount = errors.New("label count does not match target words")

// maxPromptPairs caps how much evidence is shown to the model.
const maxPromptPairs = 200

// LLM asks an Ollama model to label the match target words, using JSON mode.
type LLM struct {
	model   string
	baseURL string
	client  *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func NewLLM(model, baseURL string) *LLM {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	return &LLM{
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (o *LLM) Classify(ctx context.Context, in Input) ([]Classification, error) {
	if in.Unit.Target.Len() == 0 || in.Evidence.Len() == 0 {
		return nil, nil
	}

	jsonData, err := json.Marshal(ollamaRequest{
		Model:  o.model,
		Prompt: buildLabelPrompt(in),
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return parseLabels(out.Response, in.Unit.Target.Len())
}

func buildLabelPrompt(in Input) string {
	var sb strings.Builder
	sb.WriteString("You help a translator reuse a translation memory match.\n")
	fmt.Fprintf(&sb, "New source sentence: %q\n", in.Sentence.Text())
	fmt.Fprintf(&sb, "Match source: %q\n", in.Unit.Source.Text())
	sb.WriteString("Match translation, one word per line:\n")
	for i, w := range in.Unit.Target.Words {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, w.Text)
	}

	sb.WriteString("\nMachine translation evidence (source => target):\n")
	n := 0
	in.Evidence.Each(func(s, t string) {
		if n >= maxPromptPairs {
			return
		}
		fmt.Fprintf(&sb, "  %s => %s\n", s, t)
		n++
	})

	fmt.Fprintf(&sb, `
For each of the %d words of the match translation decide whether it can stay
as it is for the new sentence ("keep"), must be edited ("change"), or you
cannot tell ("none").
Respond ONLY in JSON:
{"labels": ["keep|change|none", ...]}
`, in.Unit.Target.Len())

	return sb.String()
}

func parseLabels(response string, want int) ([]Classification, error) {
	var parsed struct {
		Labels []string `json:"labels"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse oracle response as JSON: %w", err)
	}
	if len(parsed.Labels) != want {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrLabelCount, want, len(parsed.Labels))
	}

	classes := make([]Classification, want)
	for i, label := range parsed.Labels {
		// Unknown labels count as no opinion.
		classes[i], _ = ParseClassification(label)
	}
	if allNone(classes) {
		return nil, nil
	}
	return classes, nil
}
