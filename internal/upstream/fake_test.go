package upstream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/ads-driver/internal/driver"
	"github.com/AngelCh415/ads-driver/internal/models"
)

var tokenPrincipal = models.Principal{Mode: models.AuthToken, Credentials: models.Credentials{Token: "super_secret_token"}}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestFakeStatsStampsRequestedDate(t *testing.T) {
	f := NewFake(DefaultCatalog())
	for _, day := range []string{"2022-01-01", "2024-02-29", "1999-12-31"} {
		o := f.FetchStats(context.Background(), tokenPrincipal, driver.StatsQuery{Account: "acc1", Date: mustDate(t, day), Location: time.UTC})
		require.Equal(t, driver.Success, o.Class)
		require.NotEmpty(t, o.Value)
		for _, row := range o.Value {
			assert.Equal(t, day, row.Date.String())
			assert.Equal(t, "acc1", row.AdAccount)
		}
	}
}

func TestFakeOutcomeClasses(t *testing.T) {
	f := NewFake(DefaultCatalog())
	date := mustDate(t, "2022-01-01")
	tests := []struct {
		account string
		stats   driver.Class
		info    driver.Class
		detail  string
	}{
		{"acc1", driver.Success, driver.Success, ""},
		{"acc2", driver.NoData, driver.Success, ""},
		{"acc_no_data", driver.NoData, driver.Success, ""},
		{"acc3", driver.UpstreamFailure, driver.UpstreamFailure, "unknown error"},
		{"acc_unknown_error", driver.UpstreamFailure, driver.UpstreamFailure, "unknown error"},
		{"acc_no_access", driver.AccessDenied, driver.AccessDenied, "account access denied"},
		{"never-heard-of-it", driver.AccessDenied, driver.AccessDenied, "account access denied"},
	}
	for _, tt := range tests {
		t.Run(tt.account, func(t *testing.T) {
			s := f.FetchStats(context.Background(), tokenPrincipal, driver.StatsQuery{Account: tt.account, Date: date})
			assert.Equal(t, tt.stats, s.Class)
			a := f.FetchAccount(context.Background(), tokenPrincipal, tt.account)
			assert.Equal(t, tt.info, a.Class)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, s.Detail)
				assert.Equal(t, tt.detail, a.Detail)
			}
			if s.Class == driver.NoData {
				assert.Empty(t, s.Value)
			}
		})
	}
}

func TestFakeListAccountsHidesDenied(t *testing.T) {
	f := NewFake(DefaultCatalog())
	o := f.ListAccounts(context.Background(), tokenPrincipal)
	require.Equal(t, driver.Success, o.Class)
	assert.Equal(t, "user123", o.Value.Owner.NativeID)

	ids := make([]string, 0, len(o.Value.Accounts))
	for _, a := range o.Value.Accounts {
		ids = append(ids, a.NativeID)
	}
	assert.Equal(t, []string{"acc1", "acc2", "acc3", "acc_no_data", "acc_unknown_error"}, ids)
}

func TestFakeHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := NewFake(DefaultCatalog()).FetchStats(ctx, tokenPrincipal, driver.StatsQuery{Account: "acc1", Date: mustDate(t, "2022-01-01")})
	assert.Equal(t, driver.UpstreamFailure, o.Class)
}

func TestCatalogPut(t *testing.T) {
	cat := NewCatalog()
	cat.Put(Profile{NativeID: "x", Name: "X", Behavior: WithData, Rows: 3})
	o := NewFake(cat).FetchStats(context.Background(), tokenPrincipal, driver.StatsQuery{Account: "x", Date: mustDate(t, "2022-01-01")})
	require.Equal(t, driver.Success, o.Class)
	assert.Len(t, o.Value, 3)
	assert.Equal(t, "camp_3", o.Value[2].CampaignID)
}
