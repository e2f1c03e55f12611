package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var req StatsRequest
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2022-01-01","native_id":"acc1"}`), &req))
	require.NotNil(t, req.Date)
	assert.Equal(t, "2022-01-01", req.Date.String())

	b, err := json.Marshal(req.Date)
	require.NoError(t, err)
	assert.JSONEq(t, `"2022-01-01"`, string(b))
}

func TestDateRejectsBadInput(t *testing.T) {
	for _, in := range []string{`{"date":"01/02/2022"}`, `{"date":20220101}`, `{"date":"2022-13-01"}`} {
		var req StatsRequest
		err := json.Unmarshal([]byte(in), &req)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrInvalidDate), in)
	}
}

func TestStatsRowWireShape(t *testing.T) {
	d, err := ParseDate("2022-01-01")
	require.NoError(t, err)
	row := StatsRow{
		Date:       d,
		AdAccount:  "acc1",
		CampaignID: "camp_1",
		Spend:      decimal.RequireFromString("100.2"),
		Clicks:     42,
	}

	b, err := json.Marshal(row)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "2022-01-01", m["date"])
	assert.Equal(t, "100.2", m["spend"])
	assert.Equal(t, float64(42), m["clicks"])
	assert.Contains(t, m, "adgroup_id")
	assert.Contains(t, m, "all_conversions")
}

func TestPrincipalSubject(t *testing.T) {
	assert.Equal(t, "token", Principal{Mode: AuthToken, Credentials: Credentials{Token: "secret"}}.Subject())
	assert.Equal(t, "bob", Principal{Mode: AuthLogin, Credentials: Credentials{Login: "bob", Password: "pw"}}.Subject())
	assert.Empty(t, Principal{}.Subject())
}
