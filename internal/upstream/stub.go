package upstream

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AngelCh415/ads-driver/internal/driver"
	"github.com/AngelCh415/ads-driver/internal/models"
)

// NewStubServer exposes a Fake over the wire protocol HTTPGateway speaks.
// Requests without any credential header are rejected with 403.
func NewStubServer(f *Fake) http.Handler {
	mux := chi.NewRouter()

	mux.Get("/accounts", func(w http.ResponseWriter, r *http.Request) {
		p, ok := stubPrincipal(r)
		if !ok {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}
		o := f.ListAccounts(r.Context(), p)
		if !writeFailure(w, o.Class, o.Detail) {
			return
		}
		resp := wireAccounts{
			User:     wireAccount{ID: o.Value.Owner.NativeID, Name: o.Value.Owner.Name},
			Accounts: make([]wireAccount, 0, len(o.Value.Accounts)),
		}
		for _, a := range o.Value.Accounts {
			resp.Accounts = append(resp.Accounts, wireAccount{ID: a.NativeID, Name: a.Name})
		}
		writeJSON(w, resp)
	})

	mux.Get("/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		p, ok := stubPrincipal(r)
		if !ok {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}
		o := f.FetchAccount(r.Context(), p, chi.URLParam(r, "id"))
		if !writeFailure(w, o.Class, o.Detail) {
			return
		}
		writeJSON(w, wireAccount{ID: o.Value.NativeID, Name: o.Value.Name})
	})

	mux.Get("/accounts/{id}/stats", func(w http.ResponseWriter, r *http.Request) {
		p, ok := stubPrincipal(r)
		if !ok {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}
		date, err := models.ParseDate(r.URL.Query().Get("date"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		loc := driver.ResolveLocation(r.URL.Query().Get("tz"))
		if loc.Class != driver.Success {
			http.Error(w, loc.Detail, http.StatusBadRequest)
			return
		}
		o := f.FetchStats(r.Context(), p, driver.StatsQuery{Account: chi.URLParam(r, "id"), Date: date, Location: loc.Value})
		if !writeFailure(w, o.Class, o.Detail) {
			return
		}
		out := make([]wireRow, 0, len(o.Value))
		for _, row := range o.Value {
			out = append(out, toWireRow(row))
		}
		writeJSON(w, out)
	})

	return mux
}

func stubPrincipal(r *http.Request) (models.Principal, bool) {
	if t := r.Header.Get(models.HeaderToken); t != "" {
		return models.Principal{Mode: models.AuthToken, Credentials: models.Credentials{Token: t}}, true
	}
	l, pw := r.Header.Get(models.HeaderLogin), r.Header.Get(models.HeaderPassword)
	if l != "" && pw != "" {
		return models.Principal{Mode: models.AuthLogin, Credentials: models.Credentials{Login: l, Password: pw}}, true
	}
	return models.Principal{}, false
}

// writeFailure writes the error status for failure classes and reports
// whether the caller should go on to write a success body.
func writeFailure(w http.ResponseWriter, c driver.Class, detail string) bool {
	switch c {
	case driver.Success, driver.NoData:
		return true
	case driver.AccessDenied, driver.InvalidCredentials:
		http.Error(w, detail, http.StatusForbidden)
	default:
		http.Error(w, detail, http.StatusInternalServerError)
	}
	return false
}

func toWireRow(r models.StatsRow) wireRow {
	itoa := strconv.Itoa
	return wireRow{
		Date:              r.Date.String(),
		AdAccount:         r.AdAccount,
		AdAccountName:     r.AdAccountName,
		Campaign:          r.Campaign,
		CampaignID:        r.CampaignID,
		AdGroup:           r.AdGroup,
		AdGroupID:         r.AdGroupID,
		Ad:                r.Ad,
		AdID:              r.AdID,
		Country:           r.Country,
		AdNetwork:         r.AdNetwork,
		Spend:             r.Spend.String(),
		Impressions:       itoa(r.Impressions),
		Clicks:            itoa(r.Clicks),
		Purchases:         itoa(r.Purchases),
		LinkClicks:        itoa(r.LinkClicks),
		AddsToCart:        itoa(r.AddsToCart),
		AdNetworkInstalls: itoa(r.AdNetworkInstalls),
		ActionsLead:       itoa(r.ActionsLead),
		ActionsPixelLead:  itoa(r.ActionsPixelLead),
		AdNetworkSessions: itoa(r.AdNetworkSessions),
		AllConversions:    itoa(r.AllConversions),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
