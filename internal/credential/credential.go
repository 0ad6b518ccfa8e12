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

// Package credential loads the GitHub personal access token used to
// authenticate outbound API calls.
//
// The token lives in a plain text file. Surrounding whitespace, including a
// trailing newline, is trimmed. A File caches the token after the first
// successful read; call Reload after rotating the token on disk.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ErrUnavailable is wrapped by every error returned when the token cannot be read.
var ErrUnavailable = errors.New("credential unavailable")

// Load reads and trims the token stored at path.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrUnavailable, path)
	}
	return token, nil
}

// File is a token source backed by a file on disk
type File struct {
	path string

	mu    sync.Mutex
	token string
}

// NewFile returns a File reading from path. Nothing is read until Token is called.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file the token is read from
func (f *File) Path() string {
	return f.path
}

// Token returns the cached token, reading the file on first use.
// A failed read is not cached, so the next call tries again.
func (f *File) Token() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.token != "" {
		return f.token, nil
	}
	token, err := Load(f.path)
	if err != nil {
		return "", err
	}
	f.token = token
	return token, nil
}

// Reload re-reads the file. On failure the previously cached token is kept.
func (f *File) Reload() error {
	token, err := Load(f.path)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
	return nil
}
