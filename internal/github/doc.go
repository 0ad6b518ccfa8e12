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

// Package github provides GitHub API integration for IssueMyst.
//
// This package implements a client for the three read-only endpoints the
// service needs: the rate limit, repository metadata (for the open issue
// count) and the paginated open issue list.
//
// Key features:
//   - Bearer authentication with a token supplied by a TokenSource
//   - Fixed User-Agent identifying the service
//   - Explicit per-call timeout
//   - Classification of every failure into a domain.Kind
//
// Example usage:
//
//	client, err := github.NewClient(github.Options{
//	    Tokens: credential.NewFile("pat.txt"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	issues, err := client.GetIssuePage(ctx, domain.RepoRef{Owner: "golang", Name: "go"}, 1)
//
// Error classification:
//
//   - Token source failure: KindCredentialUnavailable
//   - 404 from GitHub: KindNotFound
//   - Primary or secondary rate limit response: KindRateLimitReached
//   - Undecodable body or any other error status: KindInvalidUpstreamResponse
//   - Network failure or timeout: KindTransportFailure
//
// Requests are never retried. A failed call fails the whole pick.
package github
