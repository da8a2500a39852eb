package steam

import "strings"

const DefaultRegionCode = "RU"

// RegionProfile holds the storefront parameters for one region.
type RegionProfile struct {
	Code           string
	CatalogCountry string // cc
	Locale         string // l
	Currency       string
}

// Regions is an immutable registry of region profiles.
type Regions struct {
	order    []string
	profiles map[string]RegionProfile
	fallback RegionProfile
}

// NewRegions builds a registry. fallback must name one of the profiles;
// if it doesn't, the first profile is used.
func NewRegions(profiles []RegionProfile, fallback string) *Regions {
	r := &Regions{profiles: make(map[string]RegionProfile, len(profiles))}
	for _, p := range profiles {
		code := strings.ToUpper(p.Code)
		p.Code = code
		if _, dup := r.profiles[code]; !dup {
			r.order = append(r.order, code)
		}
		r.profiles[code] = p
	}
	if p, ok := r.profiles[strings.ToUpper(fallback)]; ok {
		r.fallback = p
	} else if len(r.order) > 0 {
		r.fallback = r.profiles[r.order[0]]
	}
	return r
}

func DefaultRegions() *Regions {
	return NewRegions([]RegionProfile{
		{Code: "RU", CatalogCountry: "ru", Locale: "russian", Currency: "RUB"},
		{Code: "US", CatalogCountry: "us", Locale: "russian", Currency: "USD"},
		{Code: "EU", CatalogCountry: "de", Locale: "russian", Currency: "EUR"},
		{Code: "KZ", CatalogCountry: "kz", Locale: "russian", Currency: "KZT"},
		{Code: "TR", CatalogCountry: "tr", Locale: "russian", Currency: "TRY"},
		{Code: "AR", CatalogCountry: "ar", Locale: "russian", Currency: "ARS"},
		{Code: "BR", CatalogCountry: "br", Locale: "russian", Currency: "BRL"},
	}, DefaultRegionCode)
}

// ProfileFor returns the profile for code, or the fallback profile for
// anything unknown. It never fails. The lookup is case-sensitive on purpose:
// codes are stored upper-case and "ru" is not a known code.
func (r *Regions) ProfileFor(code string) RegionProfile {
	if p, ok := r.profiles[code]; ok {
		return p
	}
	return r.fallback
}

func (r *Regions) IsKnown(code string) bool {
	_, ok := r.profiles[code]
	return ok
}

// Codes lists region codes in definition order.
func (r *Regions) Codes() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

var regionNotices = map[string]string{
	"RU": "⚠️ В России могут быть ограничения на некоторые игры",
	"TR": "⚠️ В Турции могут быть региональные ограничения",
	"AR": "⚠️ В Аргентине могут быть региональные ограничения",
}

// RegionNotice returns a warning about possible regional restrictions.
func RegionNotice(code string) string {
	if msg, ok := regionNotices[code]; ok {
		return msg
	}
	return "⚠️ В вашем регионе могут быть ограничения на некоторые игры"
}
