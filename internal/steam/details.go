package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

// AppDetails fetches the appdetails record for exactly one app id.
// A missing key or success=false yields ErrNotFound.
func (c *Client) AppDetails(ctx context.Context, id int, profile RegionProfile) (*GameDetail, error) {
	key := strconv.Itoa(id)
	params := url.Values{}
	params.Set("appids", key)
	params.Set("l", profile.Locale)
	params.Set("cc", profile.CatalogCountry)
	params.Set("currency", profile.Currency)

	c.logger.Info("fetching app details", "app_id", id, "region", profile.Code)

	var resp map[string]appDetailsEntry
	if err := c.get(ctx, "/appdetails", params, &resp); err != nil {
		return nil, fmt.Errorf("app %d: %w", id, err)
	}

	entry, ok := resp[key]
	if !ok || !entry.Success || len(entry.Data) == 0 {
		return nil, fmt.Errorf("app %d in region %s: %w", id, profile.Code, ErrNotFound)
	}

	var detail GameDetail
	if err := json.Unmarshal(entry.Data, &detail); err != nil {
		return nil, fmt.Errorf("app %d: %w: %w", id, ErrDecode, err)
	}
	detail.ID = id
	detail.Region = profile.Code
	return &detail, nil
}

type detailSource interface {
	AppDetails(ctx context.Context, id int, profile RegionProfile) (*GameDetail, error)
}

// Fetcher resolves region codes and logs fetch outcomes by severity:
// a missing listing is a warning, anything else an error.
type Fetcher struct {
	source  detailSource
	regions *Regions
	logger  *slog.Logger
}

func NewFetcher(source detailSource, regions *Regions, logger *slog.Logger) *Fetcher {
	if regions == nil {
		regions = DefaultRegions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{source: source, regions: regions, logger: logger}
}

func (f *Fetcher) Fetch(ctx context.Context, id int, region string) (*GameDetail, error) {
	profile := f.regions.ProfileFor(region)
	detail, err := f.source.AppDetails(ctx, id, profile)
	switch {
	case err == nil:
		return detail, nil
	case errors.Is(err, ErrNotFound):
		f.logger.Warn("game not found or unavailable in region", "app_id", id, "region", profile.Code)
	default:
		f.logger.Error("steam details error", "app_id", id, "region", profile.Code, "error", err)
	}
	return nil, err
}
