package evidence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/valpere/edithints/internal/segment"
	"github.com/valpere/edithints/internal/translator"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
)

type CollectorConfig struct {
	// Service is passed to every provider call.
	Service translator.ServiceConfig
	// Timeout bounds one provider/direction job.
	Timeout time.Duration
	// Concurrency bounds the number of jobs in flight.
	Concurrency int
	// Cache is optional.
	Cache Cache
	// Checker, when set, vets every decoded response before it is used.
	Checker ResponseChecker
	Logger  *slog.Logger
}

// ResponseChecker rejects responses that decode fine but cannot be trusted,
// such as an untranslated echo of the request.
type ResponseChecker interface {
	Check(pieces []string, targetLang string) error
}

// Request describes one evidence pass over a translation unit.
type Request struct {
	Unit       segment.TranslationUnit
	SourceLang string
	TargetLang string
	MaxLen     int
}

// Collector drives providers over all sub-segments of a unit, in both
// directions, and builds a Dictionary from the answers.
type Collector struct {
	config CollectorConfig
	sem    *semaphore.Weighted
	logger *slog.Logger
}

func NewCollector(config CollectorConfig) *Collector {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		config: config,
		sem:    semaphore.NewWeighted(int64(config.Concurrency)),
		logger: logger,
	}
}

type job struct {
	index     int
	service   translator.TranslationService
	direction Direction
}

type jobResult struct {
	index int
	pairs [][2]string
	err   error
}

// Collect never fails: a provider or direction that errors or misaligns
// contributes nothing, and an empty dictionary is a valid outcome. Results
// are merged in provider-name order, source->target before target->source.
func (c *Collector) Collect(ctx context.Context, req Request, providers *translator.Set) *Dictionary {
	dict := NewDictionary()
	if providers.Len() == 0 || req.MaxLen < 1 || req.Unit.Empty() {
		return dict
	}

	var jobs []job
	for _, svc := range providers.Services() {
		for _, dir := range []Direction{SourceToTarget, TargetToSource} {
			jobs = append(jobs, job{index: len(jobs), service: svc, direction: dir})
		}
	}

	resultChan := make(chan jobResult, len(jobs))
	for _, j := range jobs {
		go func(j job) {
			resultChan <- c.run(ctx, req, j)
		}(j)
	}

	results := make([]jobResult, 0, len(jobs))
	for range jobs {
		results = append(results, <-resultChan)
	}
	sort.Slice(results, func(a, b int) bool { return results[a].index < results[b].index })

	for _, r := range results {
		j := jobs[r.index]
		if r.err != nil {
			c.logger.Warn("evidence discarded",
				"provider", j.service.Name(),
				"direction", j.direction.String(),
				"code", string(Classify(r.err)),
				"error", r.err)
			continue
		}
		for _, p := range r.pairs {
			dict.Add(p[0], p[1])
		}
	}

	c.logger.Debug("evidence collected", "providers", providers.Len(), "pairs", dict.Len())
	return dict
}

func (c *Collector) run(ctx context.Context, req Request, j job) (res jobResult) {
	res.index = j.index
	name := j.service.Name()

	defer func() {
		if r := recover(); r != nil {
			res.pairs = nil
			res.err = &ProviderError{Provider: name, Direction: j.direction, Err: fmt.Errorf("%w: panic: %v", ErrMalformedResponse, r)}
		}
	}()

	if err := c.sem.Acquire(ctx, 1); err != nil {
		res.err = &ProviderError{Provider: name, Direction: j.direction, Err: err}
		return res
	}
	defer c.sem.Release(1)

	jobCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	origin, from, to := req.Unit.Source, req.SourceLang, req.TargetLang
	if j.direction == TargetToSource {
		origin, from, to = req.Unit.Target, req.TargetLang, req.SourceLang
	}

	subs := segment.AllSubSegments(origin, req.MaxLen)
	texts := make([]string, len(subs))
	for i, s := range subs {
		texts[i] = s.Text()
	}

	for _, batch := range Batch(texts, translator.MaxRequestChars(j.service)) {
		pieces, err := c.translate(jobCtx, j, from, to, batch)
		if err != nil {
			res.err = err
			res.pairs = nil
			return res
		}
		for k, piece := range pieces {
			if j.direction == SourceToTarget {
				res.pairs = append(res.pairs, [2]string{batch[k], piece})
			} else {
				res.pairs = append(res.pairs, [2]string{piece, batch[k]})
			}
		}
	}

	return res
}

func (c *Collector) translate(ctx context.Context, j job, from, to string, batch []string) ([]string, error) {
	name := j.service.Name()
	text := Encode(batch)
	key := CacheKey{Provider: name, SourceLang: from, TargetLang: to, Text: text}

	if c.config.Cache != nil {
		if cached, ok := c.config.Cache.Get(ctx, key); ok {
			if pieces, err := Decode(cached); err == nil && len(pieces) == len(batch) {
				// Entries may predate the checker being enabled.
				if err := c.check(j, pieces, to); err != nil {
					return nil, err
				}
				return pieces, nil
			}
		}
	}

	result, err := j.service.Translate(ctx, c.config.Service, translator.TranslateRequest{
		Text:       text,
		SourceLang: from,
		TargetLang: to,
		Format:     translator.FormatHTML,
	})
	if err != nil {
		return nil, &ProviderError{Provider: name, Direction: j.direction, Err: err}
	}
	if result == nil {
		return nil, &ProviderError{Provider: name, Direction: j.direction, Err: fmt.Errorf("%w: no result", ErrMalformedResponse)}
	}
	if result.Error != "" {
		return nil, &ProviderError{Provider: name, Direction: j.direction, Err: errors.New(result.Error)}
	}

	pieces, err := Decode(result.TranslatedText)
	if err != nil {
		return nil, &ProviderError{Provider: name, Direction: j.direction, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	if len(pieces) != len(batch) {
		c.logger.Debug("misaligned response", "provider", name, "sent", batch, "received", pieces)
		return nil, &AlignmentMismatchError{Provider: name, Direction: j.direction, Want: len(batch), Got: len(pieces)}
	}
	if err := c.check(j, pieces, to); err != nil {
		return nil, err
	}

	if c.config.Cache != nil {
		c.config.Cache.Put(ctx, key, result.TranslatedText)
	}
	return pieces, nil
}

func (c *Collector) check(j job, pieces []string, lang string) error {
	if c.config.Checker == nil {
		return nil
	}
	if err := c.config.Checker.Check(pieces, lang); err != nil {
		return &ProviderError{Provider: j.service.Name(), Direction: j.direction, Err: fmt.Errorf("%w: %w", ErrRejectedResponse, err)}
	}
	return nil
}
