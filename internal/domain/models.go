package domain

import (
	"strings"
	"time"
)

// Source identifies where a posting came from
type Source string

const (
	SourceLocal    Source = "local"
	SourceAdzuna   Source = "adzuna"
	SourceRemoteOK Source = "remoteok"
	SourceJooble   Source = "jooble"
)

// RemoteType describes the work arrangement of a posting
type RemoteType string

const (
	RemoteUnset  RemoteType = ""
	RemoteRemote RemoteType = "remote"
	RemoteOnsite RemoteType = "onsite"
	RemoteHybrid RemoteType = "hybrid"
)

// ParseRemoteType maps free text onto a RemoteType, unknown values become RemoteUnset
func ParseRemoteType(s string) RemoteType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remote":
		return RemoteRemote
	case "onsite", "on-site", "on site":
		return RemoteOnsite
	case "hybrid":
		return RemoteHybrid
	default:
		return RemoteUnset
	}
}

// Posting is the canonical normalized job posting returned to callers
type Posting struct {
	ID              string     `json:"id"`
	Source          Source     `json:"source"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	Description     string     `json:"description"`
	Country         string     `json:"country"`
	Location        string     `json:"location"`
	City            string     `json:"city"`
	RemoteType      RemoteType `json:"remoteType,omitempty"`
	PostedDate      *time.Time `json:"postedDate"`
	RedirectURL     string     `json:"redirectUrl"`
	MatchPercentage int        `json:"matchPercentage"`
}

// SearchQuery is built once per request and not mutated afterwards
type SearchQuery struct {
	Country  string   // raw country name or code, resolved by the service
	Text     string   // free-text term matched against title/description
	Location string   // optional location substring
	Skills   []string // seeker skills, used for filtering, keywords and scoring
	Page     int      // 1-indexed, paginated providers only
	ClientIP string   // used to geolocate when Country is empty
}

// NormalizedPage returns the 1-indexed page, defaulting to 1
func (q SearchQuery) NormalizedPage() int {
	if q.Page < 1 {
		return 1
	}
	return q.Page
}

// StoreFilter narrows a local store query. Empty fields do not filter.
type StoreFilter struct {
	Country  string   // exact, lower-cased
	Location string   // case-insensitive substring
	Text     string   // case-insensitive substring of title or description
	AllTags  []string // every entry must be a case-insensitive substring of some tag
}

// ProviderQuery is what a provider adapter receives
type ProviderQuery struct {
	Country  string
	Text     string
	Location string
	Skills   []string
	Page     int
	Limit    int
}

// Keywords concatenates free text and skills the way keyword-based providers expect
func (q ProviderQuery) Keywords() string {
	parts := make([]string, 0, len(q.Skills)+1)
	if t := strings.TrimSpace(q.Text); t != "" {
		parts = append(parts, t)
	}
	for _, s := range q.Skills {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// NewPosting is the input for publishing a posting into the local store
type NewPosting struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Description string     `json:"description"`
	Country     string     `json:"country"`
	Location    string     `json:"location"`
	City        string     `json:"city"`
	RemoteType  RemoteType `json:"remoteType"`
	RedirectURL string     `json:"redirectUrl"`
	Tags        []string   `json:"tags"`
}

// Favorite is a posting bookmarked by a user
type Favorite struct {
	UserID      string    `json:"-"`
	JobID       string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	RedirectURL string    `json:"redirectUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile is the seeker view consumed from the profile store
type Profile struct {
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
}
