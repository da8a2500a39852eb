// Package api exposes game lookups over HTTP for scripts and health checks.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"game-checker-bot/internal/present"
	"game-checker-bot/internal/steam"

	"github.com/gin-gonic/gin"
)

const minQueryRunes = 2

type Handler struct {
	Resolver      *steam.Resolver
	Fetcher       *steam.Fetcher
	DefaultRegion string
}

func NewHandler(resolver *steam.Resolver, fetcher *steam.Fetcher, defaultRegion string) *Handler {
	return &Handler{Resolver: resolver, Fetcher: fetcher, DefaultRegion: defaultRegion}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)   // GET /api/search?q=&region=
	rg.GET("/apps/:id", h.getApp) // GET /api/apps/:id?region=
}

func (h *Handler) region(c *gin.Context) string {
	return h.Resolver.Regions().ProfileFor(strings.ToUpper(c.DefaultQuery("region", h.DefaultRegion))).Code
}

func (h *Handler) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if utf8.RuneCountInString(q) < minQueryRunes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q must be at least 2 characters"})
		return
	}
	region := h.region(c)

	items, err := h.Resolver.Resolve(c.Request.Context(), q, region)
	if err != nil {
		status := statusFor(err)
		body := gin.H{"error": errorText(status), "query": q, "region": region}
		if status == http.StatusNotFound {
			body["suggestion"] = steam.SuggestionFor(q)
			body["region_notice"] = steam.RegionNotice(region)
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":  q,
		"region": region,
		"total":  len(items),
		"items":  items,
	})
}

func (h *Handler) getApp(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid app id"})
		return
	}
	region := h.region(c)

	detail, err := h.Fetcher.Fetch(c.Request.Context(), id, region)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, gin.H{"error": errorText(status), "id": id, "region": region})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"detail": detail,
		"text":   present.Render(detail, region),
	})
}

// statusFor maps a steam error onto an HTTP status. Transport kinds win over
// not-found because a search that failed everywhere matches both.
func statusFor(err error) int {
	switch {
	case errors.Is(err, steam.ErrTimeout):
		return http.StatusGatewayTimeout
	case steam.IsTransport(err):
		return http.StatusBadGateway
	case errors.Is(err, steam.ErrNotFound):
		return http.StatusNotFound
	default:
		slog.Error("unexpected lookup error", "error", err)
		return http.StatusInternalServerError
	}
}

func errorText(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not found"
	case http.StatusGatewayTimeout:
		return "steam timed out"
	case http.StatusBadGateway:
		return "steam unavailable"
	default:
		return "lookup failed"
	}
}
