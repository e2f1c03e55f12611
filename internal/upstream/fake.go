// Package upstream contains the Gateway implementations: a deterministic
// fake, an HTTP client for a real upstream, and a stub server that exposes
// the fake over HTTP.
package upstream

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/ads-driver/internal/driver"
	"github.com/AngelCh415/ads-driver/internal/models"
)

const accessDenied = "account access denied"

var defaultSpend = decimal.RequireFromString("100.2")

// Fake answers from a Catalog. It never generates its own dates: every row
// is stamped with the requested day.
type Fake struct {
	cat   *Catalog
	owner models.AccountInfo
}

func NewFake(cat *Catalog) *Fake {
	return &Fake{cat: cat, owner: models.AccountInfo{Name: "Some API User", NativeID: "user123"}}
}

func (f *Fake) ListAccounts(ctx context.Context, _ models.Principal) driver.Outcome[models.AccountList] {
	if ctx.Err() != nil {
		return driver.Aborted[models.AccountList](ctx)
	}
	visible := f.cat.Visible()
	list := models.AccountList{Owner: f.owner, Accounts: make([]models.AccountInfo, 0, len(visible))}
	for _, p := range visible {
		list.Accounts = append(list.Accounts, models.AccountInfo{Name: p.Name, NativeID: p.NativeID})
	}
	return driver.Ok(list)
}

func (f *Fake) FetchAccount(ctx context.Context, _ models.Principal, account string) driver.Outcome[models.AccountInfo] {
	p, o := f.resolve(ctx, account)
	if o.Class != driver.Success {
		return driver.Recast[struct{}, models.AccountInfo](o)
	}
	return driver.Ok(models.AccountInfo{Name: p.Name, NativeID: p.NativeID})
}

func (f *Fake) FetchStats(ctx context.Context, _ models.Principal, q driver.StatsQuery) driver.Outcome[[]models.StatsRow] {
	p, o := f.resolve(ctx, q.Account)
	if o.Class != driver.Success {
		return driver.Recast[struct{}, []models.StatsRow](o)
	}
	if p.Behavior == WithoutData || p.Rows <= 0 {
		return driver.Empty[[]models.StatsRow]()
	}
	return driver.Ok(makeRows(p, q.Date))
}

func (f *Fake) resolve(ctx context.Context, account string) (Profile, driver.Outcome[struct{}]) {
	if ctx.Err() != nil {
		return Profile{}, driver.Aborted[struct{}](ctx)
	}
	p, ok := f.cat.Lookup(account)
	if !ok {
		return Profile{}, driver.Fail[struct{}](driver.AccessDenied, accessDenied)
	}
	switch p.Behavior {
	case Denied:
		return p, driver.Fail[struct{}](driver.AccessDenied, accessDenied)
	case Broken:
		msg := p.Failure
		if msg == "" {
			msg = "unknown error"
		}
		return p, driver.Fail[struct{}](driver.UpstreamFailure, msg)
	}
	return p, driver.Ok(struct{}{})
}

func makeRows(p Profile, date models.Date) []models.StatsRow {
	rows := make([]models.StatsRow, 0, p.Rows)
	for i := 1; i <= p.Rows; i++ {
		rows = append(rows, models.StatsRow{
			Date:          date,
			AdAccount:     p.NativeID,
			AdAccountName: p.Name,
			Campaign:      fmt.Sprintf("Campaign %d", i),
			CampaignID:    fmt.Sprintf("camp_%d", i),
			Country:       "US",
			AdNetwork:     "Example Network",
			Spend:         defaultSpend,
			Impressions:   10,
			Clicks:        42,
			Purchases:     12,
			LinkClicks:    2,
		})
	}
	return rows
}
