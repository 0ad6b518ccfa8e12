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

// Package server provides the HTTP surface of IssueMyst.
//
// Routes:
//   - GET /: landing page
//   - POST /: body {"username": "...", "repo": "..."}; responds with a random
//     open issue as JSON, or {"error": "..."} with a status derived from the
//     failure kind
//   - GET /static/: embedded assets used by the landing page
//   - GET /healthz: liveness probe
//
// Rate Limiting:
//
// POST requests are rate-limited per repository using a token bucket.
// Requests exceeding the limit receive HTTP 429 Too Many Requests before any
// GitHub call is made.
//
// Error Responses:
//
// Every failure kind maps to exactly one status and message in errorResponse.
// Internal details are logged and never returned to the caller.
package server
