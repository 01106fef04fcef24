package linkcheck

import "time"

// BrokenLinkEvent is published for every broken link found during a check run.
// Downstream consumers (issue bots, dashboards) subscribe to the subject.
type BrokenLinkEvent struct {
	URL    string `json:"url"`
	Status int    `json:"status"` // 0 for transport errors
	Error  string `json:"error"`

	// Where the link is declared.
	Field string `json:"field"`
	Label string `json:"label,omitempty"`

	Project  string `json:"project"`
	SiteURL  string `json:"site_url"`
	Snapshot string `json:"snapshot"`
	Policy   string `json:"policy"`

	CheckID       string    `json:"check_id"`
	Timestamp     time.Time `json:"timestamp"`
	FailureCount  int       `json:"failure_count"`
	FirstFailedAt time.Time `json:"first_failed_at,omitzero"`
}

// CacheEntry is the last known result for a URL.
type CacheEntry struct {
	URL           string    `json:"url"`
	Status        int       `json:"status"`
	IsValid       bool      `json:"is_valid"`
	Error         string    `json:"error,omitempty"`
	LastChecked   time.Time `json:"last_checked"`
	FailureCount  int       `json:"failure_count"`
	FirstFailedAt time.Time `json:"first_failed_at,omitzero"`
}
