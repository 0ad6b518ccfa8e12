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
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mikelane/issuemyst/internal/domain"
)

var testRepo = domain.RepoRef{Owner: "CodeMyst", Name: "pastemyst"}

// fakeClient serves canned responses and records which endpoints were hit
type fakeClient struct {
	rate     *domain.RateStatus
	rateErr  error
	count    *domain.IssueCount
	countErr error
	pages    [][]domain.Issue
	pageErr  map[int]error

	rateCalls      int
	countCalls     int
	pagesRequested []int
}

func (f *fakeClient) GetRateLimit(ctx context.Context) (*domain.RateStatus, error) {
	f.rateCalls++
	if f.rateErr != nil {
		return nil, f.rateErr
	}
	return f.rate, nil
}

func (f *fakeClient) GetIssueCount(ctx context.Context, repo domain.RepoRef) (*domain.IssueCount, error) {
	f.countCalls++
	if f.countErr != nil {
		return nil, f.countErr
	}
	return f.count, nil
}

func (f *fakeClient) GetIssuePage(ctx context.Context, repo domain.RepoRef, page int) ([]domain.Issue, error) {
	f.pagesRequested = append(f.pagesRequested, page)
	if err, ok := f.pageErr[page]; ok {
		return nil, err
	}
	if page-1 < len(f.pages) {
		return f.pages[page-1], nil
	}
	return []domain.Issue{}, nil
}

func makeIssues(first, n int) []domain.Issue {
	issues := make([]domain.Issue, 0, n)
	for i := first; i < first+n; i++ {
		issues = append(issues, domain.Issue{
			Number:  i,
			Title:   fmt.Sprintf("issue %d", i),
			HTMLURL: fmt.Sprintf("https://github.com/CodeMyst/pastemyst/issues/%d", i),
			Labels:  []domain.Label{},
		})
	}
	return issues
}

func healthyClient(pageSizes ...int) *fakeClient {
	f := &fakeClient{
		rate: &domain.RateStatus{Limit: 5000, Remaining: 4999, Reset: 1700000000},
	}
	next, total := 1, 0
	for _, size := range pageSizes {
		f.pages = append(f.pages, makeIssues(next, size))
		next += size
		total += size
	}
	f.count = &domain.IssueCount{OpenIssues: total}
	return f
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

var _ = Describe("CheckQuota", func() {
	ctx := context.Background()

	It("passes when more than one call remains", func() {
		client := &fakeClient{rate: &domain.RateStatus{Remaining: 2}}
		Expect(CheckQuota(ctx, client)).To(Succeed())
	})

	DescribeTable("refuses at or below the floor",
		func(remaining int) {
			client := &fakeClient{rate: &domain.RateStatus{Limit: 5000, Remaining: remaining}}
			err := CheckQuota(ctx, client)
			Expect(domain.KindOf(err)).To(Equal(domain.KindRateLimitReached))
		},
		Entry("one remaining", 1),
		Entry("none remaining", 0),
	)

	It("propagates client errors unchanged", func() {
		upstream := domain.NewError(domain.KindInvalidUpstreamResponse, "get rate limit", errors.New("bad json"))
		client := &fakeClient{rateErr: upstream}
		Expect(CheckQuota(ctx, client)).To(BeIdenticalTo(upstream))
	})
})

var _ = Describe("CheckSize", func() {
	ctx := context.Background()

	It("passes at exactly the ceiling", func() {
		client := &fakeClient{count: &domain.IssueCount{OpenIssues: 300}}
		n, err := CheckSize(ctx, client, testRepo, 300)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(300))
	})

	It("refuses above the ceiling", func() {
		client := &fakeClient{count: &domain.IssueCount{OpenIssues: 301}}
		_, err := CheckSize(ctx, client, testRepo, 300)
		Expect(domain.KindOf(err)).To(Equal(domain.KindTooManyIssues))
	})

	It("propagates not found unchanged", func() {
		notFound := domain.NewError(domain.KindNotFound, "get issue count", nil)
		client := &fakeClient{countErr: notFound}
		_, err := CheckSize(ctx, client, testRepo, 300)
		Expect(err).To(BeIdenticalTo(notFound))
	})
})

var _ = Describe("Fetcher", func() {
	ctx := context.Background()

	It("stops at the first empty page", func() {
		client := healthyClient(30, 30)
		var slept []time.Duration
		fetcher := &Fetcher{
			FetchPage: client.GetIssuePage,
			Sleep: func(ctx context.Context, d time.Duration) error {
				slept = append(slept, d)
				return nil
			},
			Delay:    200 * time.Millisecond,
			MaxPages: MaxPagesFor(300),
		}

		issues, err := fetcher.FetchAllOpenIssues(ctx, testRepo)

		Expect(err).NotTo(HaveOccurred())
		Expect(client.pagesRequested).To(Equal([]int{1, 2, 3}))
		Expect(issues).To(HaveLen(60))
		Expect(issues[0].Number).To(Equal(1))
		Expect(issues[59].Number).To(Equal(60))
		Expect(slept).To(Equal([]time.Duration{200 * time.Millisecond, 200 * time.Millisecond}))
	})

	It("returns an empty result when the first page is empty", func() {
		client := healthyClient()
		fetcher := &Fetcher{FetchPage: client.GetIssuePage, Sleep: noSleep}

		issues, err := fetcher.FetchAllOpenIssues(ctx, testRepo)

		Expect(err).NotTo(HaveOccurred())
		Expect(issues).To(BeEmpty())
		Expect(client.pagesRequested).To(Equal([]int{1}))
	})

	It("propagates a page error", func() {
		client := healthyClient(30, 30)
		client.pageErr = map[int]error{2: domain.NewError(domain.KindInvalidUpstreamResponse, "get issue page 2", nil)}
		fetcher := &Fetcher{FetchPage: client.GetIssuePage, Sleep: noSleep}

		_, err := fetcher.FetchAllOpenIssues(ctx, testRepo)

		Expect(domain.KindOf(err)).To(Equal(domain.KindInvalidUpstreamResponse))
		Expect(client.pagesRequested).To(Equal([]int{1, 2}))
	})

	It("gives up when upstream never returns an empty page", func() {
		calls := 0
		fetcher := &Fetcher{
			FetchPage: func(ctx context.Context, repo domain.RepoRef, page int) ([]domain.Issue, error) {
				calls++
				return makeIssues(page*30, 30), nil
			},
			Sleep:    noSleep,
			MaxPages: 4,
		}

		_, err := fetcher.FetchAllOpenIssues(ctx, testRepo)

		Expect(domain.KindOf(err)).To(Equal(domain.KindInvalidUpstreamResponse))
		Expect(calls).To(Equal(4))
	})

	It("treats an interrupted pause as a transport failure", func() {
		client := healthyClient(30)
		fetcher := &Fetcher{
			FetchPage: client.GetIssuePage,
			Sleep: func(ctx context.Context, d time.Duration) error {
				return context.Canceled
			},
		}

		_, err := fetcher.FetchAllOpenIssues(ctx, testRepo)

		Expect(domain.KindOf(err)).To(Equal(domain.KindTransportFailure))
		Expect(err).To(MatchError(context.Canceled))
	})

	It("uses a real pause by default", func() {
		client := healthyClient(1)
		fetcher := &Fetcher{FetchPage: client.GetIssuePage, Delay: 20 * time.Millisecond}

		start := time.Now()
		issues, err := fetcher.FetchAllOpenIssues(ctx, testRepo)

		Expect(err).NotTo(HaveOccurred())
		Expect(issues).To(HaveLen(1))
		Expect(time.Since(start)).To(BeNumerically(">=", 20*time.Millisecond))
	})

	It("computes the page ceiling from the issue ceiling", func() {
		Expect(MaxPagesFor(300)).To(Equal(12))
		Expect(MaxPagesFor(0)).To(Equal(2))
	})
})

var _ = Describe("PickOne", func() {
	It("fails with NoIssues on an empty list", func() {
		_, _, err := PickOne(nil, nil)
		Expect(domain.KindOf(err)).To(Equal(domain.KindNoIssues))
	})

	It("removes the chosen issue", func() {
		issues := makeIssues(1, 3)
		picked, rest, err := PickOne(issues, func(n int) int { return 2 })

		Expect(err).NotTo(HaveOccurred())
		Expect(picked.Number).To(Equal(3))
		Expect(rest).To(HaveLen(2))
		Expect(rest).NotTo(ContainElement(picked))
	})

	It("can choose every index, including the last", func() {
		const n = 5
		seen := map[int]bool{}
		for range 2000 {
			picked, _, err := PickOne(makeIssues(0, n), nil)
			Expect(err).NotTo(HaveOccurred())
			seen[picked.Number] = true
		}
		for i := 0; i < n; i++ {
			Expect(seen).To(HaveKey(i), "index %d was never selected", i)
		}
	})

	It("asks the index source for the full length", func() {
		var asked int
		_, _, err := PickOne(makeIssues(0, 7), func(n int) int {
			asked = n
			return n - 1
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(asked).To(Equal(7))
	})
})

var _ = Describe("Picker", func() {
	ctx := context.Background()

	It("returns one of the fetched issues", func() {
		client := healthyClient(30, 30)
		p := New(client, WithSleep(noSleep))

		issue, err := p.RandomIssue(ctx, testRepo)

		Expect(err).NotTo(HaveOccurred())
		Expect(issue.Number).To(BeNumerically(">=", 1))
		Expect(issue.Number).To(BeNumerically("<=", 60))
		Expect(client.pagesRequested).To(Equal([]int{1, 2, 3}))
	})

	It("uses the injected index source", func() {
		client := healthyClient(30, 30)
		p := New(client, WithSleep(noSleep), WithRandom(func(n int) int { return n - 1 }))

		issue, err := p.RandomIssue(ctx, testRepo)

		Expect(err).NotTo(HaveOccurred())
		Expect(issue.Number).To(Equal(60))
	})

	It("fails with NoIssues when the repository has no open issues", func() {
		client := healthyClient()
		p := New(client, WithSleep(noSleep))

		_, err := p.RandomIssue(ctx, testRepo)

		Expect(domain.KindOf(err)).To(Equal(domain.KindNoIssues))
	})

	It("makes no repository calls when the quota is exhausted", func() {
		client := healthyClient(30)
		client.rate.Remaining = 1
		p := New(client, WithSleep(noSleep))

		_, err := p.RandomIssue(ctx, testRepo)

		Expect(domain.KindOf(err)).To(Equal(domain.KindRateLimitReached))
		Expect(client.countCalls).To(BeZero())
		Expect(client.pagesRequested).To(BeEmpty())
	})

	It("fetches no pages when the repository is too large", func() {
		client := healthyClient(30)
		client.count.OpenIssues = 301
		p := New(client, WithSleep(noSleep), WithMaxIssues(300))

		_, err := p.RandomIssue(ctx, testRepo)

		Expect(domain.KindOf(err)).To(Equal(domain.KindTooManyIssues))
		Expect(client.pagesRequested).To(BeEmpty())
	})

	It("passes not found from the issue pages through unchanged", func() {
		client := healthyClient(30)
		client.pageErr = map[int]error{1: domain.NewError(domain.KindNotFound, "get issue page 1", nil)}
		p := New(client, WithSleep(noSleep))

		_, err := p.RandomIssue(ctx, testRepo)

		Expect(domain.KindOf(err)).To(Equal(domain.KindNotFound))
	})

	It("rejects an invalid repository before calling GitHub", func() {
		client := healthyClient(30)
		p := New(client, WithSleep(noSleep))

		_, err := p.RandomIssue(ctx, domain.RepoRef{Owner: "", Name: "pastemyst"})

		Expect(domain.KindOf(err)).To(Equal(domain.KindInvalidRequest))
		Expect(client.rateCalls).To(BeZero())
	})

	It("waits the configured delay between pages", func() {
		client := healthyClient(30, 30)
		var slept []time.Duration
		p := New(client,
			WithPageDelay(5*time.Millisecond),
			WithSleep(func(ctx context.Context, d time.Duration) error {
				slept = append(slept, d)
				return nil
			}),
		)

		_, err := p.RandomIssue(ctx, testRepo)

		Expect(err).NotTo(HaveOccurred())
		Expect(slept).To(HaveLen(2))
		Expect(slept).To(HaveEach(5 * time.Millisecond))
	})
})
