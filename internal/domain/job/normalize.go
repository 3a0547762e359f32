package job

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/honeycarbs/startsmart/internal/domain"
)

// Normalize maps a source-specific record onto the canonical Posting and
// scores it against the seeker's skills.
func Normalize(raw domain.RawRecord, skills []string) domain.Posting {
	p, tags := canonical(raw)
	p.MatchPercentage = MatchScore(tags, skills)
	return p
}

// ToLocal converts any record into the local store shape, keeping its tags.
// The caller assigns the store id.
func ToLocal(raw domain.RawRecord) domain.LocalRecord {
	p, tags := canonical(raw)
	return domain.LocalRecord{
		Title:       p.Title,
		Company:     p.Company,
		Description: p.Description,
		Country:     p.Country,
		Location:    p.Location,
		City:        p.City,
		RemoteType:  p.RemoteType,
		PostedAt:    p.PostedDate,
		RedirectURL: p.RedirectURL,
		Tags:        tags,
	}
}

func canonical(raw domain.RawRecord) (domain.Posting, []string) {
	var (
		p    domain.Posting
		tags []string
	)

	switch r := raw.(type) {
	case domain.LocalRecord:
		p, tags = fromLocal(r)
	case *domain.LocalRecord:
		p, tags = fromLocal(*r)
	case domain.AdzunaRecord:
		p = fromAdzuna(r)
	case *domain.AdzunaRecord:
		p = fromAdzuna(*r)
	case domain.RemoteOKRecord:
		p, tags = fromRemoteOK(r)
	case *domain.RemoteOKRecord:
		p, tags = fromRemoteOK(*r)
	case domain.JoobleRecord:
		p = fromJooble(r)
	case *domain.JoobleRecord:
		p = fromJooble(*r)
	}

	if p.ID == "" {
		p.ID = derivedID(p)
	}
	return p, tags
}

// NormalizeAll normalizes records in order
func NormalizeAll(records []domain.RawRecord, skills []string) []domain.Posting {
	out := make([]domain.Posting, 0, len(records))
	for _, r := range records {
		out = append(out, Normalize(r, skills))
	}
	return out
}

func fromLocal(r domain.LocalRecord) (domain.Posting, []string) {
	return domain.Posting{
		ID:          r.ID,
		Source:      domain.SourceLocal,
		Title:       r.Title,
		Company:     r.Company,
		Description: r.Description,
		Country:     r.Country,
		Location:    r.Location,
		City:        r.City,
		RemoteType:  r.RemoteType,
		PostedDate:  r.PostedAt,
		RedirectURL: r.RedirectURL,
	}, r.Tags
}

func fromAdzuna(r domain.AdzunaRecord) domain.Posting {
	p := domain.Posting{
		ID:          r.ID,
		Source:      domain.SourceAdzuna,
		Title:       r.Title,
		Company:     r.Company,
		Description: r.Description,
		Location:    r.Location,
		PostedDate:  r.Created,
		RedirectURL: r.RedirectURL,
		RemoteType:  domain.ParseRemoteType(r.ContractTime),
	}
	// area is ordered from country down to the most specific place
	if len(r.Area) > 0 {
		p.Country = r.Area[0]
	}
	if len(r.Area) > 1 {
		p.City = r.Area[len(r.Area)-1]
	}
	if p.ID == "" {
		p.ID = r.RedirectURL
	}
	return p
}

func fromRemoteOK(r domain.RemoteOKRecord) (domain.Posting, []string) {
	link := r.URL
	if link == "" {
		link = r.ApplyURL
	}
	if link == "" && r.Slug != "" {
		link = "https://remoteok.com/remote-jobs/" + r.Slug
	}

	id := r.ID
	if id == "" {
		id = link
	}

	return domain.Posting{
		ID:          id,
		Source:      domain.SourceRemoteOK,
		Title:       r.Position,
		Company:     r.Company,
		Description: r.Description,
		Location:    r.Location,
		RemoteType:  domain.RemoteRemote,
		PostedDate:  r.Date,
		RedirectURL: link,
	}, r.Tags
}

func fromJooble(r domain.JoobleRecord) domain.Posting {
	id := r.ID
	if id == "" {
		id = r.Link
	}

	remote := domain.ParseRemoteType(r.Type)
	if remote == domain.RemoteUnset && strings.Contains(strings.ToLower(r.Location), "remote") {
		remote = domain.RemoteRemote
	}

	return domain.Posting{
		ID:          id,
		Source:      domain.SourceJooble,
		Title:       r.Title,
		Company:     r.Company,
		Description: r.Snippet,
		Location:    r.Location,
		RemoteType:  remote,
		PostedDate:  r.Updated,
		RedirectURL: r.Link,
	}
}

// derivedID gives postings without a native id or link a stable identifier
func derivedID(p domain.Posting) string {
	sum := sha1.Sum([]byte(strings.Join([]string{p.Title, p.Company, p.Location}, "|")))
	return string(p.Source) + ":" + hex.EncodeToString(sum[:8])
}
