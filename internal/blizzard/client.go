// Package blizzard fetches World of Warcraft guild rosters from the
// Blizzard profile API.
package blizzard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"rosterbot/internal/common"
	"rosterbot/internal/roster"
)

// Routes inside the profile API
const ROUTE_GUILD_ROSTER = "/data/wow/guild/%s/%s/roster"

// China is served from its own gateway
const CN_API_URL = "https://gateway.battlenet.com.cn"

// Back off this long after the API answered 429
const rateLimitCooldown = 10 * time.Second

type Client struct {
	cfg   Config
	proxy *common.Proxy
}

// NewClient returns a roster.Fetcher talking to the Blizzard API. Missing
// credentials are reported per request as roster.NotConfigured.
func NewClient(cfg Config) *Client {
	var httpClient *http.Client
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		credentials := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = credentials.Client(context.Background())
		httpClient.Timeout = 30 * time.Second
	}

	var restrictions []common.Restriction
	if cfg.RequestsPerSecond > 0 {
		restrictions = append(restrictions, common.Restriction{Requests: cfg.RequestsPerSecond, Duration: time.Second})
	}
	if cfg.RequestsPerHour > 0 {
		restrictions = append(restrictions, common.Restriction{Requests: cfg.RequestsPerHour, Duration: time.Hour})
	}
	limiter := common.NewRateLimiter(restrictions, rateLimitCooldown)

	return &Client{cfg: cfg, proxy: common.NewProxy(httpClient, nil, limiter)}
}

// FetchRoster implements roster.Fetcher.
func (c *Client) FetchRoster(ctx context.Context, id roster.Identity) ([]roster.Entry, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return nil, roster.NewFetchError(roster.NotConfigured, errors.New("blizzard client credentials missing"))
	}
	region := strings.ToLower(id.Region)
	if region == "" {
		region = strings.ToLower(c.cfg.Region)
	}
	if !ValidRegion(region) {
		return nil, roster.NewFetchError(roster.NotConfigured, fmt.Errorf("unknown region %q", region))
	}
	if id.Guild == "" || id.Realm == "" {
		return nil, roster.NewFetchError(roster.NotConfigured, errors.New("guild name or realm missing"))
	}

	// Request
	data, err := c.proxy.Request(ctx, c.rosterURL(region, id), true)
	if err != nil {
		return nil, classify(err)
	}

	// Decode
	entries, err := UnmarshalRoster(data)
	if err != nil {
		return nil, roster.NewFetchError(roster.Transient, fmt.Errorf("decode roster of %s: %w", id, err))
	}
	log.Debug().Str("guild", id.String()).Int("members", len(entries)).Msg("Fetched guild roster")
	return entries, nil
}

func (c *Client) rosterURL(region string, id roster.Identity) string {
	base := fmt.Sprintf(c.cfg.APIURL, region)
	if region == "cn" && strings.Contains(c.cfg.APIURL, "api.blizzard.com") {
		base = CN_API_URL
	}
	query := url.Values{}
	query.Set("namespace", "profile-"+region)
	if c.cfg.Locale != "" {
		query.Set("locale", c.cfg.Locale)
	}
	path := fmt.Sprintf(ROUTE_GUILD_ROSTER, url.PathEscape(Slug(id.Realm)), url.PathEscape(Slug(id.Guild)))
	return base + path + "?" + query.Encode()
}

// classify maps transport and status errors onto roster fetch errors.
func classify(err error) error {
	var statusErr *common.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return roster.NewFetchError(roster.AuthInvalid, err)
		case http.StatusNotFound:
			return roster.NewFetchError(roster.NotConfigured, fmt.Errorf("guild not found: %w", err))
		}
		return roster.NewFetchError(roster.Transient, err)
	}

	var tokenErr *oauth2.RetrieveError
	if errors.As(err, &tokenErr) && tokenErr.Response != nil {
		switch tokenErr.Response.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return roster.NewFetchError(roster.AuthInvalid, err)
		}
	}
	return roster.NewFetchError(roster.Transient, err)
}
