package driver

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/ads-driver/internal/models"
)

func TestNormalizeClasses(t *testing.T) {
	tests := []struct {
		name   string
		o      Outcome[[]models.StatsRow]
		status int
		detail string
	}{
		{"no data", Empty[[]models.StatsRow](), http.StatusOK, ""},
		{"invalid credentials", Fail[[]models.StatsRow](InvalidCredentials, "invalid authorization"), http.StatusForbidden, "invalid authorization"},
		{"access denied", Fail[[]models.StatsRow](AccessDenied, "account access denied"), http.StatusForbidden, "account access denied"},
		{"invalid input", Fail[[]models.StatsRow](InvalidInput, "invalid timezone: Mars/Base"), http.StatusBadRequest, "invalid timezone: Mars/Base"},
		{"upstream failure", Fail[[]models.StatsRow](UpstreamFailure, "unknown error"), http.StatusInternalServerError, "unknown error"},
		{"upstream failure without message", Fail[[]models.StatsRow](UpstreamFailure, ""), http.StatusInternalServerError, "upstream failure"},
		{"timeout", Fail[[]models.StatsRow](Timeout, ""), http.StatusRequestTimeout, "request processing timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Normalize(tt.o, Identity[[]models.StatsRow])
			assert.Equal(t, tt.status, resp.Status)
			if tt.detail == "" {
				assert.Equal(t, []any{}, resp.Body)
				return
			}
			assert.Equal(t, models.ErrorBody{Detail: tt.detail}, resp.Body)
		})
	}
}

func TestNormalizeSuccessValidatesRows(t *testing.T) {
	d, err := models.ParseDate("2022-01-01")
	require.NoError(t, err)

	good := []models.StatsRow{{Date: d, AdAccount: "acc1", CampaignID: "camp_1", Clicks: 3}}
	resp := Normalize(Ok(good), Identity[[]models.StatsRow])
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, good, resp.Body)

	bad := []models.StatsRow{{Date: d, AdAccount: "acc1", CampaignID: "", Clicks: 3}}
	resp = Normalize(Ok(bad), Identity[[]models.StatsRow])
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, models.ErrorBody{Detail: "invalid upstream data"}, resp.Body)

	negative := []models.StatsRow{{Date: d, AdAccount: "acc1", CampaignID: "camp_1", Clicks: -1}}
	assert.Equal(t, http.StatusInternalServerError, Normalize(Ok(negative), Identity[[]models.StatsRow]).Status)
}

func TestNormalizeRendersSuccess(t *testing.T) {
	o := Ok(models.AccountInfo{Name: "Account 1", NativeID: "acc1"})
	resp := Normalize(o, func(models.AccountInfo) any { return struct{}{} })
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, struct{}{}, resp.Body)
}

func TestOutcomeHelpers(t *testing.T) {
	r := Recast[int, string](Fail[int](UpstreamFailure, "boom"))
	assert.Equal(t, UpstreamFailure, r.Class)
	assert.Equal(t, "boom", r.Detail)
	assert.Equal(t, "access_denied", AccessDenied.String())
}

func TestAbortedDistinguishesDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	resp := Normalize(Aborted[[]models.StatsRow](ctx), Identity[[]models.StatsRow])
	assert.Equal(t, http.StatusRequestTimeout, resp.Status)
	assert.Equal(t, models.ErrorBody{Detail: TimeoutDetail}, resp.Body)

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	o := Aborted[struct{}](ctx)
	assert.Equal(t, UpstreamFailure, o.Class)
}
