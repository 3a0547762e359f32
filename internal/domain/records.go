package domain

import "time"

// RawRecord is a source-specific posting before normalization.
// The set of variants is closed: LocalRecord, AdzunaRecord, RemoteOKRecord, JoobleRecord.
type RawRecord interface {
	Source() Source
	isRawRecord()
}

// LocalRecord is a posting as stored in the local job store
type LocalRecord struct {
	ID          string
	Title       string
	Company     string
	Description string
	Country     string
	Location    string
	City        string
	RemoteType  RemoteType
	PostedAt    *time.Time
	RedirectURL string
	Tags        []string
}

// AdzunaRecord is a posting from the Adzuna partner API
type AdzunaRecord struct {
	ID           string
	Title        string
	Company      string
	Description  string
	Location     string
	Area         []string // country, region, ..., city
	ContractTime string
	Category     string
	Created      *time.Time
	RedirectURL  string
}

// RemoteOKRecord is a posting from the RemoteOK aggregator
type RemoteOKRecord struct {
	ID          string
	Slug        string
	Position    string
	Company     string
	Description string
	Location    string
	Tags        []string
	Date        *time.Time
	URL         string
	ApplyURL    string
}

// JoobleRecord is a posting from the Jooble board
type JoobleRecord struct {
	ID       string
	Title    string
	Company  string
	Snippet  string
	Location string
	Type     string
	Updated  *time.Time
	Link     string
}

func (LocalRecord) Source() Source    { return SourceLocal }
func (AdzunaRecord) Source() Source   { return SourceAdzuna }
func (RemoteOKRecord) Source() Source { return SourceRemoteOK }
func (JoobleRecord) Source() Source   { return SourceJooble }

func (LocalRecord) isRawRecord()    {}
func (AdzunaRecord) isRawRecord()   {}
func (RemoteOKRecord) isRawRecord() {}
func (JoobleRecord) isRawRecord()   {}
