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
	"errors"
	"fmt"
)

// Kind classifies a failure while picking an issue.
// Every failure that reaches the HTTP boundary carries exactly one Kind.
type Kind int

const (
	// KindUnknown is never produced deliberately; it marks errors that did not go through NewError
	KindUnknown Kind = iota
	// KindCredentialUnavailable means the PAT could not be read
	KindCredentialUnavailable
	// KindTransportFailure means an outbound request could not be sent or received
	KindTransportFailure
	// KindInvalidUpstreamResponse means GitHub answered with something we could not decode
	KindInvalidUpstreamResponse
	// KindNotFound means the repository is missing or private
	KindNotFound
	// KindNoIssues means the repository has no open issues
	KindNoIssues
	// KindRateLimitReached means the remaining quota is at or below the safety floor
	KindRateLimitReached
	// KindTooManyIssues means the repository has more open issues than we are willing to page through
	KindTooManyIssues
	// KindInvalidRequest means the caller supplied a malformed repository reference
	KindInvalidRequest
)

var kindNames = map[Kind]string{
	KindUnknown:                 "Unknown",
	KindCredentialUnavailable:   "CredentialUnavailable",
	KindTransportFailure:        "TransportFailure",
	KindInvalidUpstreamResponse: "InvalidUpstreamResponse",
	KindNotFound:                "NotFound",
	KindNoIssues:                "NoIssues",
	KindRateLimitReached:        "RateLimitReached",
	KindTooManyIssues:           "TooManyIssues",
	KindInvalidRequest:          "InvalidRequest",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a classified failure. Op names the step that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError returns an *Error of the given kind. err may be nil.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
