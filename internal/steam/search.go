package steam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

// Search issues one storesearch call. An empty result is not an error.
func (c *Client) Search(ctx context.Context, term string, profile RegionProfile) ([]SearchCandidate, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("l", profile.Locale)
	params.Set("cc", profile.CatalogCountry)
	params.Set("limit", strconv.Itoa(SearchLimit))

	c.logger.Info("searching game", "term", term, "region", profile.Code)

	var resp searchResponse
	if err := c.get(ctx, "/storesearch", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	return resp.Items, nil
}

// Searcher is the part of the storefront the resolver needs.
type Searcher interface {
	Search(ctx context.Context, term string, profile RegionProfile) ([]SearchCandidate, error)
}

// Resolver turns free text into catalog candidates.
type Resolver struct {
	searcher Searcher
	aliases  *AliasTable
	regions  *Regions
	logger   *slog.Logger
}

func NewResolver(searcher Searcher, aliases *AliasTable, regions *Regions, logger *slog.Logger) *Resolver {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	if regions == nil {
		regions = DefaultRegions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{searcher: searcher, aliases: aliases, regions: regions, logger: logger}
}

func (r *Resolver) Regions() *Regions { return r.regions }

// Resolve searches for the literal query first and, if that comes back
// empty, for each alias-derived alternative in order, stopping at the first
// non-empty answer. Upstream order is preserved.
//
// A failing call counts as "no results" for that call only. When nothing is
// found the error matches ErrNotFound; if every single call failed on the
// transport it also matches the transport error kind.
func (r *Resolver) Resolve(ctx context.Context, query, region string) ([]SearchCandidate, error) {
	profile := r.regions.ProfileFor(region)

	terms := append([]string{query}, r.aliases.AlternativesFor(query)...)

	var lastErr error
	failures := 0
	for i, term := range terms {
		items, err := r.searcher.Search(ctx, term, profile)
		if err != nil {
			failures++
			lastErr = err
			r.logger.Error("steam search failed", "term", term, "region", profile.Code, "error", err)
			continue
		}
		if len(items) > 0 {
			if i > 0 {
				r.logger.Info("resolved via alternative", "query", query, "term", term)
			}
			return items, nil
		}
	}

	if failures == len(terms) {
		return nil, errors.Join(ErrNotFound, lastErr)
	}
	return nil, ErrNotFound
}

// Suggestion is SuggestionFor, exposed on the resolver for callers that only hold it.
func (r *Resolver) Suggestion(query string) string {
	return SuggestionFor(query)
}
