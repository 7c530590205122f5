// Package bench drives a request generator against a target.
//
// The generator is registered through Config.Generator (or SetGenerator) and
// is asked for a new descriptor before every request.
package bench

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nojima/httpbench-go/exchange"
	"github.com/nojima/httpbench-go/generator"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const requestIDHeader = "X-Request-Id"

type Options struct {
	Requests         int
	Concurrency      int
	GeneratorOptions generator.Options
	RequestID        bool
}

type Config struct {
	Generator       generator.Generator
	BaseURL         *url.URL
	ExchangeOptions exchange.Options
	Options         Options
	Logger          *logrus.Logger
}

type Benchmarker struct {
	mu        sync.RWMutex
	generator generator.Generator

	baseURL         *url.URL
	client          *http.Client
	exchangeOptions exchange.Options
	options         Options
	logger          *logrus.Entry
}

func New(config Config) (*Benchmarker, error) {
	if config.Generator == nil {
		return nil, errors.New("no request generator registered")
	}
	if config.BaseURL == nil {
		return nil, errors.New("base URL is required")
	}
	options := config.Options
	if options.Requests < 1 {
		return nil, errors.Errorf("number of requests must be positive: %d", options.Requests)
	}
	if options.Concurrency < 1 {
		options.Concurrency = 1
	}
	if options.Concurrency > options.Requests {
		options.Concurrency = options.Requests
	}

	exchangeOptions := config.ExchangeOptions
	if exchangeOptions.MaxIdleConnsPerHost == 0 {
		exchangeOptions.MaxIdleConnsPerHost = options.Concurrency
	}
	client, err := exchange.BuildHTTPClient(&exchangeOptions)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Benchmarker{
		generator:       config.Generator,
		baseURL:         config.BaseURL,
		client:          client,
		exchangeOptions: exchangeOptions,
		options:         options,
		logger:          logger.WithField("target", config.BaseURL.String()),
	}, nil
}

// Generator returns the active request generator.
func (b *Benchmarker) Generator() generator.Generator {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.generator
}

// SetGenerator registers g as the active request generator. Requests already
// being built keep using the previous one.
func (b *Benchmarker) SetGenerator(g generator.Generator) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generator = g
}

// Next asks the active generator for a descriptor and builds the HTTP request for it.
func (b *Benchmarker) Next(ctx context.Context) (*http.Request, error) {
	d := b.Generator().Generate(b.options.GeneratorOptions)
	r, err := exchange.BuildHTTPRequest(ctx, b.baseURL, d, &b.exchangeOptions)
	if err != nil {
		return nil, err
	}
	if b.options.RequestID {
		r.Header.Set(requestIDHeader, uuid.NewString())
	}
	return r, nil
}

// Run issues Options.Requests requests from Options.Concurrency workers.
// Transport errors are counted in the result; an error is returned only when a
// request cannot be built or ctx is done. The partial result is returned in both cases.
func (b *Benchmarker) Run(ctx context.Context) (*Result, error) {
	b.logger.WithFields(logrus.Fields{
		"requests":    b.options.Requests,
		"concurrency": b.options.Concurrency,
	}).Info("starting benchmark")

	tallies := make([]tally, b.options.Concurrency)
	var issued int64
	total := int64(b.options.Requests)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i := range tallies {
		t := &tallies[i]
		g.Go(func() error {
			for atomic.AddInt64(&issued, 1) <= total {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := b.issue(ctx, t); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()

	result := newResult(tallies, time.Since(start))
	entry := b.logger.WithFields(logrus.Fields{
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"elapsed":   result.Elapsed,
	})
	if err != nil {
		entry.WithError(err).Warn("benchmark aborted")
		return result, err
	}
	entry.Info("benchmark finished")
	return result, nil
}

func (b *Benchmarker) issue(ctx context.Context, t *tally) error {
	r, err := b.Next(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := b.client.Do(r)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		t.failed++
		b.logger.WithError(err).WithField("url", r.URL.String()).Debug("request failed")
		return nil
	}
	n, err := io.Copy(ioutil.Discard, resp.Body)
	resp.Body.Close()
	if err != nil {
		t.failed++
		b.logger.WithError(err).WithField("url", r.URL.String()).Debug("reading response body failed")
		return nil
	}
	t.record(resp.StatusCode, n, time.Since(start))
	return nil
}
