package domain

// LinkStats holds the per-category counts of a link verification run.
type LinkStats struct {
	Total    int `json:"total"`
	OK       int `json:"ok"`
	Redirect int `json:"redirect"`
	Failed   int `json:"failed"`
}

// RepoStats holds the per-category counts of a repository inspection run.
type RepoStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Inactive    int `json:"inactive"`
	Archived    int `json:"archived"`
	NotFound    int `json:"not_found"`
	RateLimited int `json:"rate_limited"`
	Errors      int `json:"errors"`
}

// CountLinks tallies records by status.
func CountLinks(records []LinkRecord) LinkStats {
	s := LinkStats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case LinkOK:
			s.OK++
		case LinkRedirect:
			s.Redirect++
		case LinkFailed:
			s.Failed++
		}
	}
	return s
}

// CountRepos tallies records by status.
func CountRepos(records []RepoRecord) RepoStats {
	s := RepoStats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case RepoActive:
			s.Active++
		case RepoInactive:
			s.Inactive++
		case RepoArchived:
			s.Archived++
		case RepoNotFound:
			s.NotFound++
		case RepoRateLimited:
			s.RateLimited++
		case RepoError:
			s.Errors++
		}
	}
	return s
}

// Failing returns the number of not-found and errored repositories.
func (s RepoStats) Failing() int {
	return s.NotFound + s.Errors
}
