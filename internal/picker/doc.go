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

// Package picker selects a random open issue from a GitHub repository.
//
// A pick runs four steps in order and stops at the first failure:
//
//  1. CheckQuota refuses to start when the remaining API quota is at or
//     below one call.
//  2. CheckSize refuses repositories with more open issues than the
//     configured ceiling, since paging through them could exhaust the quota.
//  3. Fetcher.FetchAllOpenIssues pages through every open issue, pausing
//     between pages to stay clear of secondary rate limits.
//  4. PickOne chooses one issue uniformly at random.
//
// Every failure is a *domain.Error whose Kind is passed through unchanged so
// the HTTP layer can map it to a status code.
//
// Example usage:
//
//	p := picker.New(client, picker.WithMaxIssues(300))
//	issue, err := p.RandomIssue(ctx, domain.RepoRef{Owner: "golang", Name: "go"})
package picker
