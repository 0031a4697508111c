package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/readme-health/internal/domain"
	"github.com/naka-gawa/readme-health/internal/gateway"
)

// mockFetcher is a mock implementation of the gateway.RepoFetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchRepository(ctx context.Context, owner, repo string) (*domain.RepoMetadata, error) {
	args := m.Called(ctx, owner, repo)
	// The returned metadata is nil when an error occurs.
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepoMetadata), args.Error(1)
}

func (m *mockFetcher) FetchLatestRelease(ctx context.Context, owner, repo string) (string, error) {
	args := m.Called(ctx, owner, repo)
	return args.String(0), args.Error(1)
}

func TestInspector_InspectOne(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	ref := domain.RepoRef{Name: "Tool", URL: "https://github.com/octo/tool", Owner: "octo", Repo: "tool"}

	testCases := []struct {
		name        string
		meta        *domain.RepoMetadata
		metaErr     error
		tag         string
		tagErr      error
		expected    domain.RepoRecord
		skipRelease bool
	}{
		{
			name: "pushed 10 days ago is active",
			meta: &domain.RepoMetadata{PushedAt: now.AddDate(0, 0, -10), Stars: 5, Forks: 1, License: "MIT"},
			tag:  "v1.0.0",
			expected: domain.RepoRecord{
				Name: "Tool", URL: ref.URL, Status: domain.RepoActive, Stars: 5, Forks: 1, License: "MIT",
				MetadataFetched: true, LastPush: now.AddDate(0, 0, -10), DaysSinceUpdate: 10, LatestRelease: "v1.0.0", Message: "OK",
			},
		},
		{
			name: "pushed 200 days ago is inactive",
			meta: &domain.RepoMetadata{PushedAt: now.AddDate(0, 0, -200), License: "Unknown"},
			tag:  "v0.9.0",
			expected: domain.RepoRecord{
				Name: "Tool", URL: ref.URL, Status: domain.RepoInactive, License: "Unknown",
				MetadataFetched: true, LastPush: now.AddDate(0, 0, -200), DaysSinceUpdate: 200, LatestRelease: "v0.9.0", Message: "OK",
			},
		},
		{
			name: "179 days is still active",
			meta: &domain.RepoMetadata{PushedAt: now.AddDate(0, 0, -179)},
			expected: domain.RepoRecord{
				Name: "Tool", URL: ref.URL, Status: domain.RepoActive,
				MetadataFetched: true, LastPush: now.AddDate(0, 0, -179), DaysSinceUpdate: 179, Message: "OK",
			},
		},
		{
			name: "exactly 180 days is inactive",
			meta: &domain.RepoMetadata{PushedAt: now.AddDate(0, 0, -180)},
			expected: domain.RepoRecord{
				Name: "Tool", URL: ref.URL, Status: domain.RepoInactive,
				MetadataFetched: true, LastPush: now.AddDate(0, 0, -180), DaysSinceUpdate: 180, Message: "OK",
			},
		},
		{
			name: "never pushed keeps its metadata",
			meta: &domain.RepoMetadata{Stars: 2, Forks: 1, License: "Apache-2.0"},
			expected: domain.RepoRecord{
				Name: "Tool", URL: ref.URL, Status: domain.RepoInactive, Stars: 2, Forks: 1, License: "Apache-2.0",
				MetadataFetched: true, Message: "no pushes recorded",
			},
		},
		{
			name: "archived wins over a recent push",
			meta: &domain.RepoMetadata{Archived: true, PushedAt: now.AddDate(0, 0, -1), License: "MIT"},
			expected: domain.RepoRecord{
				Name: "Tool", URL: ref.URL, Status: domain.RepoArchived, License: "MIT",
				MetadataFetched: true, LastPush: now.AddDate(0, 0, -1), DaysSinceUpdate: 1, Message: "repository is archived",
			},
		},
		{
			name:   "release failure is not fatal",
			meta:   &domain.RepoMetadata{PushedAt: now.AddDate(0, 0, -3)},
			tagErr: fmt.Errorf("%w: no release", gateway.ErrNotFound),
			expected: domain.RepoRecord{
				Name: "Tool", URL: ref.URL, Status: domain.RepoActive,
				MetadataFetched: true, LastPush: now.AddDate(0, 0, -3), DaysSinceUpdate: 3, Message: "OK",
			},
		},
		{
			name:        "not found",
			metaErr:     fmt.Errorf("%w: octo/tool", gateway.ErrNotFound),
			skipRelease: true,
			expected:    domain.RepoRecord{Name: "Tool", URL: ref.URL, Status: domain.RepoNotFound, Message: "repository not found or deleted"},
		},
		{
			name:        "rate limited",
			metaErr:     fmt.Errorf("%w: octo/tool", gateway.ErrRateLimited),
			skipRelease: true,
			expected:    domain.RepoRecord{Name: "Tool", URL: ref.URL, Status: domain.RepoRateLimited, Message: "API rate limit hit, set GITHUB_TOKEN"},
		},
		{
			name:        "unexpected status",
			metaErr:     &gateway.StatusError{StatusCode: 500},
			skipRelease: true,
			expected:    domain.RepoRecord{Name: "Tool", URL: ref.URL, Status: domain.RepoError, Message: "HTTP 500"},
		},
		{
			name:        "transport error",
			metaErr:     errors.New("request failed: timeout"),
			skipRelease: true,
			expected:    domain.RepoRecord{Name: "Tool", URL: ref.URL, Status: domain.RepoError, Message: "request failed: timeout"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			if tc.meta != nil {
				fetcher.On("FetchRepository", mock.Anything, "octo", "tool").Return(tc.meta, nil)
			} else {
				fetcher.On("FetchRepository", mock.Anything, "octo", "tool").Return(nil, tc.metaErr)
			}
			if !tc.skipRelease {
				fetcher.On("FetchLatestRelease", mock.Anything, "octo", "tool").Return(tc.tag, tc.tagErr)
			}

			inspector := NewInspector(fetcher, 0, log.New(io.Discard, "", 0))
			inspector.now = func() time.Time { return now }

			rec := inspector.InspectOne(context.Background(), ref)

			assert.Equal(t, tc.expected, rec)
			fetcher.AssertExpectations(t)
			if tc.skipRelease {
				fetcher.AssertNotCalled(t, "FetchLatestRelease", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestInspector_Inspect_SequentialWithDelay(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepository", mock.Anything, mock.Anything, mock.Anything).Return(&domain.RepoMetadata{PushedAt: time.Now()}, nil)
	fetcher.On("FetchLatestRelease", mock.Anything, mock.Anything, mock.Anything).Return("", nil)

	refs := []domain.RepoRef{
		{Name: "a", Owner: "o", Repo: "a"},
		{Name: "b", Owner: "o", Repo: "b"},
		{Name: "c", Owner: "o", Repo: "c"},
	}

	var order []string
	start := time.Now()
	records := NewInspector(fetcher, 50*time.Millisecond, log.New(io.Discard, "", 0)).
		Inspect(context.Background(), refs, func(done, total int, rec domain.RepoRecord) {
			assert.Equal(t, len(order)+1, done)
			assert.Equal(t, 3, total)
			order = append(order, rec.Name)
		})
	elapsed := time.Since(start)

	assert.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	// The first call goes out immediately, the next two wait one delay each.
	assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond)
}

// slowFetcher records when each metadata call starts and when the check
// (the release call) ends.
type slowFetcher struct {
	took   time.Duration
	starts []time.Time
	ends   []time.Time
}

func (f *slowFetcher) FetchRepository(ctx context.Context, owner, repo string) (*domain.RepoMetadata, error) {
	f.starts = append(f.starts, time.Now())
	time.Sleep(f.took)
	return &domain.RepoMetadata{PushedAt: time.Now()}, nil
}

func (f *slowFetcher) FetchLatestRelease(ctx context.Context, owner, repo string) (string, error) {
	f.ends = append(f.ends, time.Now())
	return "", nil
}

func TestInspector_Inspect_DelayCountsFromEndOfCheck(t *testing.T) {
	const delay = 50 * time.Millisecond
	// Each check outlasts the delay.
	fetcher := &slowFetcher{took: 80 * time.Millisecond}
	refs := []domain.RepoRef{
		{Name: "a", Owner: "o", Repo: "a"},
		{Name: "b", Owner: "o", Repo: "b"},
		{Name: "c", Owner: "o", Repo: "c"},
	}

	NewInspector(fetcher, delay, log.New(io.Discard, "", 0)).Inspect(context.Background(), refs, nil)

	require.Len(t, fetcher.starts, 3)
	require.Len(t, fetcher.ends, 3)
	for n := 1; n < 3; n++ {
		gap := fetcher.starts[n].Sub(fetcher.ends[n-1])
		assert.GreaterOrEqual(t, gap, delay, "gap before check %d", n+1)
	}
}

func TestInspector_Inspect_CanceledContext(t *testing.T) {
	fetcher := new(mockFetcher)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inspector := NewInspector(fetcher, time.Hour, log.New(io.Discard, "", 0))

	records := inspector.Inspect(ctx, []domain.RepoRef{
		{Name: "a", URL: "https://github.com/o/a", Owner: "o", Repo: "a"},
		{Name: "b", URL: "https://github.com/o/b", Owner: "o", Repo: "b"},
	}, nil)

	assert.Len(t, records, 2)
	assert.Equal(t, domain.RepoError, records[0].Status)
	assert.Equal(t, domain.RepoError, records[1].Status)
	fetcher.AssertNotCalled(t, "FetchRepository", mock.Anything, mock.Anything, mock.Anything)
}
