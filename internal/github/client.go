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

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/mikelane/issuemyst/internal/domain"
)

// createdAtLayout is the timestamp layout GitHub uses for created_at
const createdAtLayout = "2006-01-02T15:04:05Z"

// errNoCredential marks transport failures caused by the token source
var errNoCredential = errors.New("no credential")

// githubClient implements the Client interface using go-github
type githubClient struct {
	client *github.Client
}

// NewClient creates a new GitHub client authenticating with tokens from opts.Tokens
func NewClient(opts Options) (Client, error) {
	if opts.Tokens == nil {
		return nil, fmt.Errorf("github client requires a token source")
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &bearerTransport{
			tokens: opts.Tokens,
			base:   http.DefaultTransport,
		},
	}

	gh := github.NewClient(httpClient)
	gh.UserAgent = opts.UserAgent

	if opts.BaseURL != "" && opts.BaseURL != DefaultBaseURL {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = u
	}

	return &githubClient{client: gh}, nil
}

// GetRateLimit retrieves the core rate limit bucket
func (c *githubClient) GetRateLimit(ctx context.Context) (*domain.RateStatus, error) {
	const op = "get rate limit"

	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	if limits == nil || limits.Core == nil {
		return nil, domain.NewError(domain.KindInvalidUpstreamResponse, op, errors.New("response has no core rate limit"))
	}
	// GitHub never reports a zero limit; an empty bucket means the fields were missing.
	if limits.Core.Limit == 0 {
		return nil, domain.NewError(domain.KindInvalidUpstreamResponse, op, errors.New("core rate limit has no limit"))
	}

	return &domain.RateStatus{
		Limit:     limits.Core.Limit,
		Remaining: limits.Core.Remaining,
		Reset:     limits.Core.Reset.Unix(),
	}, nil
}

// GetIssueCount retrieves the open issue count from the repository metadata
func (c *githubClient) GetIssueCount(ctx context.Context, repo domain.RepoRef) (*domain.IssueCount, error) {
	const op = "get issue count"

	r, _, err := c.client.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, classify(op, err)
	}

	switch {
	case r == nil:
		return nil, domain.NewError(domain.KindInvalidUpstreamResponse, op, errors.New("empty repository response"))
	case r.OpenIssuesCount != nil:
		return &domain.IssueCount{OpenIssues: r.GetOpenIssuesCount()}, nil
	case r.OpenIssues != nil:
		return &domain.IssueCount{OpenIssues: r.GetOpenIssues()}, nil
	default:
		return nil, domain.NewError(domain.KindInvalidUpstreamResponse, op, errors.New("response has no open_issues_count"))
	}
}

// GetIssuePage retrieves a single page of open issues
func (c *githubClient) GetIssuePage(ctx context.Context, repo domain.RepoRef, page int) ([]domain.Issue, error) {
	const op = "get issue page"

	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{Page: page},
	}

	issues, _, err := c.client.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, classify(fmt.Sprintf("%s %d", op, page), err)
	}

	result := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue != nil {
			result = append(result, convertIssue(issue))
		}
	}
	return result, nil
}

// classify maps a go-github error onto a domain error kind
func classify(op string, err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		rateErr     *github.RateLimitError
		abuseErr    *github.AbuseRateLimitError
		responseErr *github.ErrorResponse
		acceptedErr *github.AcceptedError
	)

	switch {
	case errors.Is(err, errNoCredential):
		return domain.NewError(domain.KindCredentialUnavailable, op, err)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		return domain.NewError(domain.KindInvalidUpstreamResponse, op, err)
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return domain.NewError(domain.KindRateLimitReached, op, err)
	case errors.As(err, &responseErr):
		if responseErr.Response != nil && responseErr.Response.StatusCode == http.StatusNotFound {
			return domain.NewError(domain.KindNotFound, op, err)
		}
		// Any other status means the body is not what we asked for.
		return domain.NewError(domain.KindInvalidUpstreamResponse, op, err)
	case errors.As(err, &acceptedErr):
		return domain.NewError(domain.KindInvalidUpstreamResponse, op, err)
	default:
		return domain.NewError(domain.KindTransportFailure, op, err)
	}
}

// convertIssue converts a GitHub issue to our domain model
func convertIssue(issue *github.Issue) domain.Issue {
	result := domain.Issue{
		URL:       issue.GetURL(),
		HTMLURL:   issue.GetHTMLURL(),
		LabelsURL: issue.GetLabelsURL(),
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		User:      domain.User{Login: issue.GetUser().GetLogin()},
		Labels:    []domain.Label{}, // never null in JSON
	}

	if issue.CreatedAt != nil {
		result.CreatedAt = issue.CreatedAt.UTC().Format(createdAtLayout)
	}

	for _, label := range issue.Labels {
		if label != nil {
			result.Labels = append(result.Labels, domain.Label{
				Name:  label.GetName(),
				Color: label.GetColor(),
			})
		}
	}

	return result
}

// bearerTransport attaches the PAT to every outgoing request
type bearerTransport struct {
	tokens TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens.Token()
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, fmt.Errorf("%w: %w", errNoCredential, err)
	}

	// Clone the request to avoid mutating the original
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(r)
}
