package job

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/startsmart/internal/domain"
)

func TestNormalizeLocal(t *testing.T) {
	t.Parallel()

	posted := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := domain.LocalRecord{
		ID:          "5f0c6d2e-7c43-4f8e-9a3c-1a2b3c4d5e6f",
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "Go services",
		Country:     "fr",
		Location:    "Paris, Ile-de-France",
		City:        "Paris",
		RemoteType:  domain.RemoteHybrid,
		PostedAt:    &posted,
		RedirectURL: "https://acme.example/jobs/1",
		Tags:        []string{"go", "postgres"},
	}

	p := Normalize(rec, []string{"Go"})

	assert.Equal(t, rec.ID, p.ID)
	assert.Equal(t, domain.SourceLocal, p.Source)
	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "fr", p.Country)
	assert.Equal(t, "Paris", p.City)
	assert.Equal(t, domain.RemoteHybrid, p.RemoteType)
	require.NotNil(t, p.PostedDate)
	assert.True(t, posted.Equal(*p.PostedDate))
	assert.Equal(t, 50, p.MatchPercentage)

	// pointer variant behaves the same
	assert.Equal(t, p, Normalize(&rec, []string{"Go"}))
}

func TestNormalizeAdzuna(t *testing.T) {
	t.Parallel()

	rec := domain.AdzunaRecord{
		ID:           "4242",
		Title:        "Data Engineer",
		Company:      "Widgets Ltd",
		Description:  "pipelines",
		Location:     "Lyon, Rhone",
		Area:         []string{"France", "Auvergne-Rhone-Alpes", "Lyon"},
		ContractTime: "full_time",
		RedirectURL:  "https://adzuna.example/4242",
	}

	p := Normalize(rec, []string{"python"})

	assert.Equal(t, "4242", p.ID)
	assert.Equal(t, domain.SourceAdzuna, p.Source)
	assert.Equal(t, "France", p.Country)
	assert.Equal(t, "Lyon", p.City)
	assert.Equal(t, domain.RemoteUnset, p.RemoteType)
	assert.Nil(t, p.PostedDate)
	assert.Equal(t, 0, p.MatchPercentage, "no structured tags means no score")
}

func TestNormalizeRemoteOK(t *testing.T) {
	t.Parallel()

	t.Run("link fallbacks", func(t *testing.T) {
		t.Parallel()

		p := Normalize(domain.RemoteOKRecord{
			Slug:     "senior-go-dev-99",
			Position: "Senior Go Dev",
			Company:  "Remote Co",
			Tags:     []string{"golang", "aws"},
		}, []string{"go"})

		assert.Equal(t, "Senior Go Dev", p.Title)
		assert.Equal(t, "https://remoteok.com/remote-jobs/senior-go-dev-99", p.RedirectURL)
		assert.Equal(t, p.RedirectURL, p.ID)
		assert.Equal(t, domain.RemoteRemote, p.RemoteType)
		assert.Equal(t, 50, p.MatchPercentage)
	})

	t.Run("apply url when no url", func(t *testing.T) {
		t.Parallel()

		p := Normalize(domain.RemoteOKRecord{ID: "99", ApplyURL: "https://apply.example/99"}, nil)
		assert.Equal(t, "99", p.ID)
		assert.Equal(t, "https://apply.example/99", p.RedirectURL)
	})
}

func TestNormalizeJooble(t *testing.T) {
	t.Parallel()

	p := Normalize(domain.JoobleRecord{
		Title:    "Frontend Developer",
		Company:  "Board Inc",
		Snippet:  "React and TypeScript",
		Location: "Remote, Germany",
		Link:     "https://jooble.example/away/1",
	}, []string{"react"})

	assert.Equal(t, "https://jooble.example/away/1", p.ID)
	assert.Equal(t, "React and TypeScript", p.Description)
	assert.Equal(t, domain.RemoteRemote, p.RemoteType)
	assert.Equal(t, 0, p.MatchPercentage)
}

func TestNormalizeDerivesIDWhenMissing(t *testing.T) {
	t.Parallel()

	rec := domain.JoobleRecord{Title: "Ops", Company: "Nowhere", Location: "Berlin"}

	a := Normalize(rec, nil)
	b := Normalize(rec, nil)

	require.NotEmpty(t, a.ID)
	assert.True(t, strings.HasPrefix(a.ID, "jooble:"))
	assert.Equal(t, a.ID, b.ID, "derived ids are stable")

	other := Normalize(domain.JoobleRecord{Title: "Ops", Company: "Elsewhere", Location: "Berlin"}, nil)
	assert.NotEqual(t, a.ID, other.ID)
}

func TestNormalizeKeepsMissingFieldsEmpty(t *testing.T) {
	t.Parallel()

	for _, rec := range []domain.RawRecord{
		domain.LocalRecord{ID: "x"},
		domain.AdzunaRecord{ID: "x"},
		domain.RemoteOKRecord{ID: "x"},
		domain.JoobleRecord{ID: "x"},
	} {
		p := Normalize(rec, []string{"go"})
		assert.Equal(t, "x", p.ID)
		assert.Equal(t, rec.Source(), p.Source)
		assert.Empty(t, p.Title)
		assert.Nil(t, p.PostedDate)
		assert.Equal(t, 0, p.MatchPercentage)
	}
}

func TestToLocalKeepsTags(t *testing.T) {
	t.Parallel()

	rec := ToLocal(domain.RemoteOKRecord{
		ID:       "7",
		Position: "SRE",
		Company:  "Infra",
		Tags:     []string{"k8s", "terraform"},
		URL:      "https://remoteok.com/remote-jobs/7",
	})

	assert.Empty(t, rec.ID)
	assert.Equal(t, "SRE", rec.Title)
	assert.Equal(t, []string{"k8s", "terraform"}, rec.Tags)
	assert.Equal(t, domain.RemoteRemote, rec.RemoteType)
	assert.Equal(t, "https://remoteok.com/remote-jobs/7", rec.RedirectURL)
}

func TestNormalizeAllPreservesOrder(t *testing.T) {
	t.Parallel()

	out := NormalizeAll([]domain.RawRecord{
		domain.JoobleRecord{ID: "1"},
		domain.AdzunaRecord{ID: "2"},
		domain.LocalRecord{ID: "3"},
	}, nil)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{out[0].ID, out[1].ID, out[2].ID})
}
