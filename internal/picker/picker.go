// MIT License
//
// Copyright (c) 2025 Mike Lane
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package picker

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/mikelane/issuemyst/internal/domain"
	"github.com/mikelane/issuemyst/internal/github"
)

const (
	// DefaultMaxIssues is the largest open issue count we will page through
	DefaultMaxIssues = 300
	// DefaultPageDelay is the pause between issue pages
	DefaultPageDelay = 200 * time.Millisecond
)

// Picker runs the quota check, size check, fetch and selection for one repository
type Picker struct {
	client    github.Client
	maxIssues int
	pageDelay time.Duration
	sleep     SleepFunc
	intn      func(int) int
}

// Option configures a Picker
type Option func(*Picker)

// WithMaxIssues sets the open issue ceiling
func WithMaxIssues(n int) Option {
	return func(p *Picker) { p.maxIssues = n }
}

// WithPageDelay sets the pause between issue pages
func WithPageDelay(d time.Duration) Option {
	return func(p *Picker) { p.pageDelay = d }
}

// WithSleep replaces the pause implementation, mainly for tests
func WithSleep(sleep SleepFunc) Option {
	return func(p *Picker) { p.sleep = sleep }
}

// WithRandom replaces the index source. intn must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(p *Picker) { p.intn = intn }
}

// New creates a Picker backed by client
func New(client github.Client, opts ...Option) *Picker {
	p := &Picker{
		client:    client,
		maxIssues: DefaultMaxIssues,
		pageDelay: DefaultPageDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RandomIssue returns one open issue of repo chosen uniformly at random
func (p *Picker) RandomIssue(ctx context.Context, repo domain.RepoRef) (*domain.Issue, error) {
	logger := log.FromContext(ctx).WithValues("repository", repo.String())

	if err := repo.Validate(); err != nil {
		return nil, logFailure(logger, "validate repository", err)
	}

	if err := CheckQuota(ctx, p.client); err != nil {
		return nil, logFailure(logger, "check rate limit", err)
	}

	count, err := CheckSize(ctx, p.client, repo, p.maxIssues)
	if err != nil {
		return nil, logFailure(logger, "check issue count", err)
	}

	fetcher := &Fetcher{
		FetchPage: p.client.GetIssuePage,
		Sleep:     p.sleep,
		Delay:     p.pageDelay,
		MaxPages:  MaxPagesFor(p.maxIssues),
	}
	issues, err := fetcher.FetchAllOpenIssues(ctx, repo)
	if err != nil {
		return nil, logFailure(logger, "fetch open issues", err)
	}

	candidates := len(issues)
	issue, _, err := PickOne(issues, p.intn)
	if err != nil {
		return nil, logFailure(logger, "pick issue", err)
	}

	logger.Info("Picked random issue", "number", issue.Number, "candidates", candidates, "openIssues", count)
	return &issue, nil
}

// logFailure records err with its kind and returns it unchanged
func logFailure(logger logr.Logger, step string, err error) error {
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindNotFound, domain.KindNoIssues, domain.KindInvalidRequest:
		logger.Info("Could not pick issue", "step", step, "kind", kind.String(), "reason", err.Error())
	default:
		logger.Error(err, "Failed to pick issue", "step", step, "kind", kind.String())
	}
	return err
}
