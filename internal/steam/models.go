package steam

import "encoding/json"

// SearchCandidate is one entry of a storesearch response.
type SearchCandidate struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	TinyImage string `json:"tiny_image,omitempty"`
	Metascore string `json:"metascore,omitempty"`
}

type searchResponse struct {
	Total int               `json:"total"`
	Items []SearchCandidate `json:"items"`
}

type PriceOverview struct {
	Currency         string `json:"currency"`
	Initial          int    `json:"initial"`
	Final            int    `json:"final"`
	DiscountPercent  int    `json:"discount_percent"`
	InitialFormatted string `json:"initial_formatted"`
	FinalFormatted   string `json:"final_formatted"`
}

type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

type Genre struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type Metacritic struct {
	Score int    `json:"score"`
	URL   string `json:"url,omitempty"`
}

// GameDetail is the "data" object of an appdetails response. It is only
// meaningful for the region it was fetched under and is never cached.
type GameDetail struct {
	ID               int            `json:"id"`
	Region           string         `json:"region,omitempty"`
	SteamAppID       int            `json:"steam_appid"`
	Type             string         `json:"type"`
	Name             string         `json:"name"`
	IsFree           bool           `json:"is_free"`
	PriceOverview    *PriceOverview `json:"price_overview,omitempty"`
	ReleaseDate      ReleaseDate    `json:"release_date"`
	Developers       []string       `json:"developers,omitempty"`
	Publishers       []string       `json:"publishers,omitempty"`
	Genres           []Genre        `json:"genres,omitempty"`
	Metacritic       *Metacritic    `json:"metacritic,omitempty"`
	ShortDescription string         `json:"short_description"`
	HeaderImage      string         `json:"header_image,omitempty"`
}

type appDetailsEntry struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}
