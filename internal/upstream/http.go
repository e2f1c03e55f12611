package upstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/ads-driver/internal/driver"
	"github.com/AngelCh415/ads-driver/internal/models"
)

const (
	unavailable    = "upstream unavailable"
	invalidPayload = "invalid upstream data"
)

type wireAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireAccounts struct {
	User     wireAccount   `json:"user"`
	Accounts []wireAccount `json:"accounts"`
}

// wireRow is the upstream stats record; metrics arrive as strings.
type wireRow struct {
	Date              string `json:"date"`
	AdAccount         string `json:"ad_account"`
	AdAccountName     string `json:"ad_account_name"`
	Campaign          string `json:"campaign"`
	CampaignID        string `json:"campaign_id"`
	AdGroup           string `json:"adgroup"`
	AdGroupID         string `json:"adgroup_id"`
	Ad                string `json:"ad"`
	AdID              string `json:"ad_id"`
	Country           string `json:"country"`
	AdNetwork         string `json:"ad_network"`
	Spend             string `json:"spend"`
	Impressions       string `json:"impressions"`
	Clicks            string `json:"clicks"`
	Purchases         string `json:"purchases"`
	LinkClicks        string `json:"link_clicks"`
	AddsToCart        string `json:"adds_to_cart"`
	AdNetworkInstalls string `json:"ad_network_installs"`
	ActionsLead       string `json:"actions_lead"`
	ActionsPixelLead  string `json:"actions_pixel_lead"`
	AdNetworkSessions string `json:"ad_network_sessions"`
	AllConversions    string `json:"all_conversions"`
}

// HTTPGateway talks to a JSON upstream, forwarding the principal's
// credentials on every call. No call is retried.
type HTTPGateway struct {
	c    HTTPClient
	base string
	log  *slog.Logger
}

func NewHTTPGateway(c HTTPClient, baseURL string, log *slog.Logger) *HTTPGateway {
	return &HTTPGateway{c: c, base: strings.TrimRight(baseURL, "/"), log: log}
}

func (g *HTTPGateway) ListAccounts(ctx context.Context, p models.Principal) driver.Outcome[models.AccountList] {
	var resp wireAccounts
	if err := getJSON(ctx, g.c, g.base+"/accounts", p, &resp); err != nil {
		return failure[models.AccountList](ctx, g, "list accounts", err)
	}
	list := models.AccountList{
		Owner:    models.AccountInfo{Name: resp.User.Name, NativeID: resp.User.ID},
		Accounts: make([]models.AccountInfo, 0, len(resp.Accounts)),
	}
	for _, a := range resp.Accounts {
		list.Accounts = append(list.Accounts, models.AccountInfo{Name: coalesce(a.Name, a.ID), NativeID: strings.TrimSpace(a.ID)})
	}
	return driver.Ok(list)
}

func (g *HTTPGateway) FetchAccount(ctx context.Context, p models.Principal, account string) driver.Outcome[models.AccountInfo] {
	var resp wireAccount
	if err := getJSON(ctx, g.c, g.base+"/accounts/"+url.PathEscape(account), p, &resp); err != nil {
		return failure[models.AccountInfo](ctx, g, "fetch account", err)
	}
	return driver.Ok(models.AccountInfo{Name: coalesce(resp.Name, account), NativeID: coalesce(resp.ID, account)})
}

func (g *HTTPGateway) FetchStats(ctx context.Context, p models.Principal, q driver.StatsQuery) driver.Outcome[[]models.StatsRow] {
	v := url.Values{}
	v.Set("date", q.Date.String())
	if q.Location != nil {
		v.Set("tz", q.Location.String())
	}
	u := g.base + "/accounts/" + url.PathEscape(q.Account) + "/stats?" + v.Encode()

	var resp []wireRow
	if err := getJSON(ctx, g.c, u, p, &resp); err != nil {
		return failure[[]models.StatsRow](ctx, g, "fetch stats", err)
	}
	if len(resp) == 0 {
		return driver.Empty[[]models.StatsRow]()
	}
	rows := make([]models.StatsRow, 0, len(resp))
	for i, w := range resp {
		r, err := toStatsRow(w, q.Date)
		if err != nil {
			g.log.Warn("malformed upstream row", slog.Int("index", i), slog.String("account", q.Account), slog.String("err", err.Error()))
			return driver.Fail[[]models.StatsRow](driver.UpstreamFailure, invalidPayload)
		}
		rows = append(rows, r)
	}
	return driver.Ok(rows)
}

func failure[T any](ctx context.Context, g *HTTPGateway, op string, err error) driver.Outcome[T] {
	if ctx.Err() != nil {
		g.log.Warn("upstream call aborted", slog.String("op", op), slog.String("err", err.Error()))
		return driver.Aborted[T](ctx)
	}
	var se *statusError
	if errors.As(err, &se) {
		if se.Code == http.StatusForbidden {
			return driver.Fail[T](driver.AccessDenied, coalesce(se.Body, accessDenied))
		}
		return driver.Fail[T](driver.UpstreamFailure, coalesce(se.Body, fmt.Sprintf("upstream status %d", se.Code)))
	}
	g.log.Error("upstream call failed", slog.String("op", op), slog.String("err", err.Error()))
	return driver.Fail[T](driver.UpstreamFailure, unavailable)
}

// toStatsRow builds the typed row; the requested day is authoritative.
func toStatsRow(w wireRow, date models.Date) (models.StatsRow, error) {
	r := models.StatsRow{
		Date:          date,
		AdAccount:     strings.TrimSpace(w.AdAccount),
		AdAccountName: strings.TrimSpace(w.AdAccountName),
		Campaign:      strings.TrimSpace(w.Campaign),
		CampaignID:    strings.TrimSpace(w.CampaignID),
		AdGroup:       strings.TrimSpace(w.AdGroup),
		AdGroupID:     strings.TrimSpace(w.AdGroupID),
		Ad:            strings.TrimSpace(w.Ad),
		AdID:          strings.TrimSpace(w.AdID),
		Country:       strings.TrimSpace(w.Country),
		AdNetwork:     strings.TrimSpace(w.AdNetwork),
	}
	spend, err := decimal.NewFromString(coalesce(w.Spend, "0"))
	if err != nil {
		return models.StatsRow{}, fmt.Errorf("spend: %w", err)
	}
	r.Spend = spend

	ints := []struct {
		name string
		in   string
		out  *int
	}{
		{"impressions", w.Impressions, &r.Impressions},
		{"clicks", w.Clicks, &r.Clicks},
		{"purchases", w.Purchases, &r.Purchases},
		{"link_clicks", w.LinkClicks, &r.LinkClicks},
		{"adds_to_cart", w.AddsToCart, &r.AddsToCart},
		{"ad_network_installs", w.AdNetworkInstalls, &r.AdNetworkInstalls},
		{"actions_lead", w.ActionsLead, &r.ActionsLead},
		{"actions_pixel_lead", w.ActionsPixelLead, &r.ActionsPixelLead},
		{"ad_network_sessions", w.AdNetworkSessions, &r.AdNetworkSessions},
		{"all_conversions", w.AllConversions, &r.AllConversions},
	}
	for _, f := range ints {
		n, err := strconv.Atoi(coalesce(f.in, "0"))
		if err != nil {
			return models.StatsRow{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.out = n
	}
	return r, nil
}

func coalesce(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
