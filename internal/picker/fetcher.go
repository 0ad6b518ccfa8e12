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
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/mikelane/issuemyst/internal/domain"
)

// issuesPerPage is GitHub's default page size for the issues endpoint
const issuesPerPage = 30

// PageFunc fetches one page of open issues
type PageFunc func(ctx context.Context, repo domain.RepoRef, page int) ([]domain.Issue, error)

// SleepFunc pauses between pages
type SleepFunc func(ctx context.Context, d time.Duration) error

// Fetcher pages through a repository's open issues until GitHub returns an empty page
type Fetcher struct {
	FetchPage PageFunc
	Sleep     SleepFunc
	Delay     time.Duration
	// MaxPages bounds the loop in case upstream never returns an empty page.
	// Zero means unbounded.
	MaxPages int
}

// MaxPagesFor returns the page ceiling for a repository with at most maxIssues open issues.
// The slack covers the terminating empty page and issues opened mid-fetch.
func MaxPagesFor(maxIssues int) int {
	return maxIssues/issuesPerPage + 2
}

// FetchAllOpenIssues returns every open issue in page-arrival order
func (f *Fetcher) FetchAllOpenIssues(ctx context.Context, repo domain.RepoRef) ([]domain.Issue, error) {
	logger := log.FromContext(ctx)
	sleep := f.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var all []domain.Issue
	for page := 1; ; page++ {
		if f.MaxPages > 0 && page > f.MaxPages {
			return nil, domain.NewError(domain.KindInvalidUpstreamResponse, "fetch issues",
				fmt.Errorf("no empty page after %d pages", f.MaxPages))
		}

		issues, err := f.FetchPage(ctx, repo, page)
		if err != nil {
			return nil, err
		}
		logger.V(1).Info("Fetched issue page", "page", page, "count", len(issues))

		if len(issues) == 0 {
			return all, nil
		}
		all = append(all, issues...)

		if err := sleep(ctx, f.Delay); err != nil {
			return nil, domain.NewError(domain.KindTransportFailure, "fetch issues", err)
		}
	}
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
