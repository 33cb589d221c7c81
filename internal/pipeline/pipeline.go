// Package pipeline runs the fetch, transform, and publish passes over the
// facility dataset.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/childcare-sync/internal/config"
	"github.com/sells-group/childcare-sync/internal/fetcher"
	"github.com/sells-group/childcare-sync/internal/resilience"
	"github.com/sells-group/childcare-sync/internal/transform"
	"github.com/sells-group/childcare-sync/pkg/discourse"
)

// Config is the explicit configuration of one pipeline.
type Config struct {
	DatasetEndpoint      string
	RegionField          string
	RegionFilter         string
	RegistrationEndpoint string
	APIKey               string
	APIUsername          string

	UserAgent           string
	DatasetTimeout      time.Duration
	RegistrationTimeout time.Duration

	// PublishRate caps group creation requests per second. Zero disables
	// pacing.
	PublishRate float64
}

// NewConfig maps application settings onto a pipeline Config.
func NewConfig(cfg *config.Config) Config {
	return Config{
		DatasetEndpoint:      cfg.Dataset.Endpoint,
		RegionField:          cfg.Dataset.RegionField,
		RegionFilter:         cfg.Dataset.RegionFilter,
		RegistrationEndpoint: cfg.Registration.Endpoint,
		APIKey:               cfg.Registration.APIKey,
		APIUsername:          cfg.Registration.APIUsername,
		UserAgent:            cfg.Dataset.UserAgent,
		DatasetTimeout:       time.Duration(cfg.Dataset.TimeoutSecs) * time.Second,
		RegistrationTimeout:  time.Duration(cfg.Registration.TimeoutSecs) * time.Second,
		PublishRate:          cfg.Registration.RatePerSec,
	}
}

// Source produces the facility dataset.
type Source interface {
	Fetch(ctx context.Context) (*fetcher.Dataset, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSource overrides the dataset source.
func WithSource(s Source) Option {
	return func(p *Pipeline) {
		p.source = s
	}
}

// WithPublisher overrides the group registration client.
func WithPublisher(c discourse.Client) Option {
	return func(p *Pipeline) {
		p.publisher = c
	}
}

// Pipeline fetches the dataset once and then handles each record in
// source order, one at a time.
type Pipeline struct {
	cfg       Config
	source    Source
	publisher discourse.Client
	limiter   *rate.Limiter
}

// New creates a Pipeline. Without options it reads the dataset over HTTP and
// publishes to the Discourse endpoint named in cfg.
func New(cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}

	if p.source == nil {
		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.DatasetTimeout,
		})
		p.source = fetcher.NewFacilitySource(f, cfg.DatasetEndpoint, cfg.RegionField, cfg.RegionFilter)
	}
	if p.publisher == nil {
		var dopts []discourse.Option
		if cfg.RegistrationTimeout > 0 {
			dopts = append(dopts, discourse.WithTimeout(cfg.RegistrationTimeout))
		}
		p.publisher = discourse.NewClient(cfg.RegistrationEndpoint, cfg.APIKey, cfg.APIUsername, dopts...)
	}
	if cfg.PublishRate > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.PublishRate), 1)
	}

	return p
}

// Failure records one record whose group could not be created.
type Failure struct {
	Index      int              `yaml:"index"`
	FacilityID string           `yaml:"facility_id"`
	Kind       discourse.Kind   `yaml:"kind"`
	Class      resilience.Class `yaml:"class"`
	StatusCode int              `yaml:"status_code,omitempty"`
	Message    string           `yaml:"message"`
}

// Summary is the outcome of one run.
type Summary struct {
	RunID    string        `yaml:"run_id"`
	Fetched  int           `yaml:"fetched"`
	Created  int           `yaml:"created"`
	Failed   int           `yaml:"failed"`
	Skipped  int           `yaml:"skipped"`
	Duration time.Duration `yaml:"duration"`
	Failures []Failure     `yaml:"failures,omitempty"`
}

// Run fetches the dataset and submits one group per record. A fetch failure
// is returned before any record is handled. Publish failures are recorded in
// the Summary and never stop the loop. Cancelling ctx stops between records
// and returns the partial Summary with the context error.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.New().String()}
	log := zap.L().With(zap.String("run_id", summary.RunID))
	log.Info("pipeline: starting run",
		zap.String("region", p.cfg.RegionField+"="+p.cfg.RegionFilter),
	)

	ds, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch dataset")
	}
	summary.Fetched = ds.Len()

	for i, rec := range ds.Records() {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, eris.Wrap(err, "pipeline: run interrupted")
		}

		desc, payload := transform.Transform(rec)
		if desc.IsZero() {
			log.Warn("pipeline: skipping empty record", zap.Int("index", i))
			summary.Skipped++
			continue
		}

		log.Info("pipeline: group", zap.String("descriptor", desc.String()))

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				summary.Duration = time.Since(start)
				return summary, eris.Wrap(err, "pipeline: run interrupted")
			}
		}

		res := p.publisher.CreateGroup(ctx, payload)
		if !res.OK() {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				Index:      i,
				FacilityID: payload.Name,
				Kind:       res.Kind,
				Class:      res.Class,
				StatusCode: res.StatusCode,
				Message:    res.Error(),
			})
			log.Warn("pipeline: failed to create group",
				zap.String("facility_id", payload.Name),
				zap.String("kind", string(res.Kind)),
				zap.String("class", string(res.Class)),
				zap.Int("status", res.StatusCode),
				zap.String("error", res.Error()),
			)
			continue
		}

		summary.Created++
		log.Debug("pipeline: group created",
			zap.String("facility_id", payload.Name),
			zap.Int64("group_id", res.GroupID),
		)
	}

	summary.Duration = time.Since(start)
	log.Info("pipeline: run complete",
		zap.Int("fetched", summary.Fetched),
		zap.Int("created", summary.Created),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// Preview fetches and transforms the dataset without publishing, writing one
// descriptor per line to w.
func (p *Pipeline) Preview(ctx context.Context, w io.Writer) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.New().String()}

	ds, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch dataset")
	}
	summary.Fetched = ds.Len()

	for _, rec := range ds.Records() {
		desc, _ := transform.Transform(rec)
		if desc.IsZero() {
			summary.Skipped++
			continue
		}
		if _, err := fmt.Fprintln(w, desc.String()); err != nil {
			return nil, eris.Wrap(err, "pipeline: write preview")
		}
	}

	summary.Duration = time.Since(start)
	return summary, nil
}
