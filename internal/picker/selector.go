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
	"math/rand/v2"
	"slices"

	"github.com/mikelane/issuemyst/internal/domain"
)

// PickOne removes a uniformly random issue from issues and returns it along with the remainder.
// intn must return a value in [0, n); nil uses math/rand/v2.
func PickOne(issues []domain.Issue, intn func(n int) int) (domain.Issue, []domain.Issue, error) {
	if len(issues) == 0 {
		return domain.Issue{}, issues, domain.NewError(domain.KindNoIssues, "pick issue", nil)
	}
	if intn == nil {
		intn = rand.IntN
	}

	i := intn(len(issues))
	picked := issues[i]
	return picked, slices.Delete(issues, i, i+1), nil
}
