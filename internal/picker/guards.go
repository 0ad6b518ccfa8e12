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
	"context"
	"fmt"

	"github.com/mikelane/issuemyst/internal/domain"
	"github.com/mikelane/issuemyst/internal/github"
)

// minRemainingQuota is the floor at or below which no further calls are made.
// The quota check itself has already spent one call.
const minRemainingQuota = 1

// CheckQuota fails with KindRateLimitReached when the remaining quota is too low to continue
func CheckQuota(ctx context.Context, client github.Client) error {
	rate, err := client.GetRateLimit(ctx)
	if err != nil {
		return err
	}
	if rate.Remaining <= minRemainingQuota {
		return domain.NewError(domain.KindRateLimitReached, "check quota",
			fmt.Errorf("%d of %d calls remaining, resets at %d", rate.Remaining, rate.Limit, rate.Reset))
	}
	return nil
}

// CheckSize fails with KindTooManyIssues when the repository has more than maxIssues open issues.
// It returns the open issue count so callers can size the fetch.
func CheckSize(ctx context.Context, client github.Client, repo domain.RepoRef, maxIssues int) (int, error) {
	count, err := client.GetIssueCount(ctx, repo)
	if err != nil {
		return 0, err
	}
	if count.OpenIssues > maxIssues {
		return count.OpenIssues, domain.NewError(domain.KindTooManyIssues, "check size",
			fmt.Errorf("%s has %d open issues, limit is %d", repo, count.OpenIssues, maxIssues))
	}
	return count.OpenIssues, nil
}
