package steam

import "encoding/json"

// AppID is a Steam app identifier in canonical string form.
//
// The storefront API is inconsistent about the wire type: storesearch
// returns ids as JSON numbers while other endpoints use strings. Comparing
// an unconverted numeric id against a string-keyed set silently re-fetches
// everything, so coercion happens once, at decode time.
type AppID string

func (a AppID) String() string { return string(a) }

func (a *AppID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*a = AppID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*a = AppID(s)
	return nil
}

// Candidate is a minimal storesearch result prior to enrichment.
type Candidate struct {
	ID   AppID  `json:"id"`
	Name string `json:"name"`
}

type searchResponse struct {
	Total int         `json:"total"`
	Items []Candidate `json:"items"`
}

// Descriptor is the {id, description} shape Steam uses for genres and
// categories; only the description is of interest.
type Descriptor struct {
	Description string `json:"description"`
}

type PriceOverview struct {
	Currency string `json:"currency"`
	Final    int    `json:"final"` // minor currency units
}

type Metacritic struct {
	Score int `json:"score"` // 0..100
}

type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"` // raw storefront text, no guaranteed format
}

// DetailPayload is the appdetails `data` object. Every field is optional
// until the normalizer validates it.
type DetailPayload struct {
	Type             string          `json:"type"` // must be "game" to enter the catalog
	Name             string          `json:"name"`
	SteamAppID       AppID           `json:"steam_appid"`
	ShortDescription string          `json:"short_description"`
	IsFree           bool            `json:"is_free"`
	PriceOverview    *PriceOverview  `json:"price_overview"`
	Metacritic       *Metacritic     `json:"metacritic"`
	Platforms        map[string]bool `json:"platforms"`
	Genres           []Descriptor    `json:"genres"`
	Categories       []Descriptor    `json:"categories"`
	ReleaseDate      *ReleaseDate    `json:"release_date"`
}

type detailResult struct {
	Success bool           `json:"success"`
	Data    *DetailPayload `json:"data"`
}
