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
	"time"

	"github.com/mikelane/issuemyst/internal/domain"
)

const (
	// DefaultBaseURL is the GitHub REST API root
	DefaultBaseURL = "https://api.github.com/"
	// DefaultUserAgent identifies this service to GitHub
	DefaultUserAgent = "IssueMyst issue.myst.rs"
	// DefaultTimeout bounds every outbound call
	DefaultTimeout = 10 * time.Second
)

// Client interface defines the contract for interacting with GitHub API
type Client interface {
	// GetRateLimit returns the remaining core API quota
	GetRateLimit(ctx context.Context) (*domain.RateStatus, error)
	// GetIssueCount returns the number of open issues on a repository
	GetIssueCount(ctx context.Context, repo domain.RepoRef) (*domain.IssueCount, error)
	// GetIssuePage returns one page of open issues, starting at page 1.
	// An empty slice means there are no more pages.
	GetIssuePage(ctx context.Context, repo domain.RepoRef, page int) ([]domain.Issue, error)
}

// TokenSource supplies the bearer token attached to every request
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource that always returns the same token
type StaticToken string

// Token implements TokenSource
func (s StaticToken) Token() (string, error) {
	return string(s), nil
}

// Options configures NewClient. Zero values fall back to the defaults above.
type Options struct {
	Tokens    TokenSource
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}
