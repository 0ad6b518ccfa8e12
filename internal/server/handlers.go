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

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/mikelane/issuemyst/internal/domain"
)

const maxBodyBytes = 1 << 16

// RandomIssueRequest is the body of POST /
type RandomIssueRequest struct {
	Username string `json:"username"`
	Repo     string `json:"repo"`
}

// ErrorBody is returned with every non-200 response
type ErrorBody struct {
	Error string `json:"error"`
}

// errorResponse maps an error kind to the status and message shown to callers.
// Messages never include the underlying error.
func errorResponse(kind domain.Kind) (int, string) {
	switch kind {
	case domain.KindCredentialUnavailable:
		return http.StatusInternalServerError, "server failed to read credential"
	case domain.KindTransportFailure:
		return http.StatusInternalServerError, "server failed to create a request"
	case domain.KindInvalidUpstreamResponse:
		return http.StatusInternalServerError, "invalid response from upstream"
	case domain.KindNotFound:
		return http.StatusNotFound, "repo is private or doesn't exist"
	case domain.KindNoIssues:
		return http.StatusNotFound, "repo has no open issues"
	case domain.KindRateLimitReached:
		return http.StatusTooManyRequests, "rate limit reached, try again later"
	case domain.KindTooManyIssues:
		return http.StatusInternalServerError, "repo has too many issues to page through"
	case domain.KindInvalidRequest:
		return http.StatusBadRequest, "invalid request, expected username and repo"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleIndex renders the landing page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, nil); err != nil {
		log.FromContext(r.Context()).Error(err, "Failed to render index")
	}
}

// handleRandomIssue picks a random open issue from the repository named in the body
func (s *Server) handleRandomIssue(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	var req RandomIssueRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		logger.Info("Invalid request body", "reason", err.Error())
		s.writeKind(w, domain.KindInvalidRequest)
		return
	}

	repo := domain.RepoRef{
		Owner: strings.TrimSpace(req.Username),
		Name:  strings.TrimSpace(req.Repo),
	}
	if err := repo.Validate(); err != nil {
		logger.Info("Invalid repository", "username", req.Username, "repo", req.Repo)
		s.writeKind(w, domain.KindInvalidRequest)
		return
	}

	logger = logger.WithValues("owner", repo.Owner, "repo", repo.Name)
	ctx := log.IntoContext(r.Context(), logger)

	// Rate limiting check
	if !s.rateLimiter.Allow(repo.String()) {
		logger.Info("Rate limit exceeded")
		writeJSON(w, http.StatusTooManyRequests, ErrorBody{Error: "too many requests for this repo, slow down"})
		return
	}

	issue, err := s.picker.RandomIssue(ctx, repo)
	if err != nil {
		var derr *domain.Error
		if !errors.As(err, &derr) {
			logger.Error(err, "Unclassified error")
		}
		s.writeKind(w, domain.KindOf(err))
		return
	}

	writeJSON(w, http.StatusOK, issue)
}

func (s *Server) writeKind(w http.ResponseWriter, kind domain.Kind) {
	status, msg := errorResponse(kind)
	writeJSON(w, status, ErrorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status, data = http.StatusInternalServerError, []byte(`{"error":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
