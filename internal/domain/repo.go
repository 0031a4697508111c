package domain

import "time"

// RepoRef is a hosted repository referenced from a Markdown table row.
type RepoRef struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// FullName returns "owner/repo".
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// RepoStatus is the activity classification of a repository.
type RepoStatus string

const (
	RepoActive      RepoStatus = "active"
	RepoInactive    RepoStatus = "inactive"
	RepoArchived    RepoStatus = "archived"
	RepoNotFound    RepoStatus = "not_found"
	RepoRateLimited RepoStatus = "rate_limited"
	RepoError       RepoStatus = "error"
)

// InactiveAfterDays is the push age, in whole days, at which a repository
// stops being active.
const InactiveAfterDays = 180

// RepoMetadata is what the hosting platform reports about a repository.
type RepoMetadata struct {
	Archived bool
	PushedAt time.Time
	Stars    int
	Forks    int
	License  string
}

// RepoRecord holds the result of inspecting a single repository.
// Metadata fields are zero when the metadata query did not succeed.
type RepoRecord struct {
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	Status          RepoStatus `json:"status"`
	Stars           int        `json:"stars"`
	Forks           int        `json:"forks"`
	License         string     `json:"license,omitempty"`
	LastPush        time.Time  `json:"last_push,omitempty"`
	DaysSinceUpdate int        `json:"days_since_update"`
	LatestRelease   string     `json:"latest_release,omitempty"`
	Message         string     `json:"message"`
	// MetadataFetched is set once the metadata query succeeded, even when
	// the repository has never been pushed to.
	MetadataFetched bool `json:"-"`
}

// HasMetadata reports whether the metadata fields were populated.
func (r RepoRecord) HasMetadata() bool {
	return r.MetadataFetched
}

// IsFailure reports whether the record counts against the exit code.
// Rate-limited, archived and inactive repositories are warnings only.
func (r RepoRecord) IsFailure() bool {
	return r.Status == RepoNotFound || r.Status == RepoError
}
