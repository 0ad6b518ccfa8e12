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

package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// repoNamePattern matches the characters GitHub allows in owner and repository names.
var repoNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// RepoRef identifies a GitHub repository by owner and name
type RepoRef struct {
	Owner string
	Name  string
}

// ParseRepoRef parses an "owner/name" string
func ParseRepoRef(s string) (RepoRef, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return RepoRef{}, NewError(KindInvalidRequest, "parse repo", fmt.Errorf("expected owner/name, got %q", s))
	}
	ref := RepoRef{Owner: owner, Name: name}
	if err := ref.Validate(); err != nil {
		return RepoRef{}, err
	}
	return ref, nil
}

// Validate checks that both parts are present and safe to place in an API path.
func (r RepoRef) Validate() error {
	for _, part := range []string{r.Owner, r.Name} {
		if part == "" || part == "." || part == ".." || !repoNamePattern.MatchString(part) {
			return NewError(KindInvalidRequest, "validate repo", fmt.Errorf("invalid repository %q", r.String()))
		}
	}
	return nil
}

// String returns the repository in owner/name form
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// Issue is the subset of a GitHub issue returned to callers.
// Field names match the GitHub representation so browser clients can read
// either one.
type Issue struct {
	URL       string  `json:"url"`
	HTMLURL   string  `json:"html_url"`
	LabelsURL string  `json:"labels_url"`
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	User      User    `json:"user"`
	Labels    []Label `json:"labels"`
	CreatedAt string  `json:"created_at"` // ISO-8601, as GitHub formats it
}

// User is the author of an issue
type User struct {
	Login string `json:"login"`
}

// Label is an issue label
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"` // hex without a leading '#'
}

// RateStatus is the core API quota reported by GitHub
type RateStatus struct {
	Limit     int
	Remaining int
	Reset     int64 // unix seconds
}

// IssueCount is the number of open issues (including pull requests) on a repository
type IssueCount struct {
	OpenIssues int
}
