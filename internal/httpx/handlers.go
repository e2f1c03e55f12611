package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/AngelCh415/ads-driver/internal/config"
	"github.com/AngelCh415/ads-driver/internal/driver"
	"github.com/AngelCh415/ads-driver/internal/models"
	"github.com/AngelCh415/ads-driver/internal/obs"
	"github.com/AngelCh415/ads-driver/internal/utils"
)

type principalKey struct{}

type handlers struct {
	log   *slog.Logger
	svc   config.ServiceConfig
	authn driver.Authenticator
	gw    driver.Gateway
	m     *obs.Metrics
}

// authenticate runs before any body decoding, so a bad credential never
// reaches the Gateway.
func (h *handlers) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := credentials(r)
		if err != nil {
			h.respond(w, r, driver.InvalidInput, driver.Normalize(driver.Fail[struct{}](driver.InvalidInput, err.Error()), driver.Identity[struct{}]))
			return
		}
		o := h.authn.Authenticate(r.Context(), c)
		if o.Class != driver.Success {
			h.respond(w, r, o.Class, driver.Normalize(o, driver.Identity[models.Principal]))
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, o.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principal(ctx context.Context) models.Principal {
	p, _ := ctx.Value(principalKey{}).(models.Principal)
	return p
}

func (h *handlers) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.InfoResponse{
		Name:     h.svc.Name,
		Slug:     h.svc.Slug,
		AuthType: h.authn.Mode(),
	})
}

func (h *handlers) accounts(w http.ResponseWriter, r *http.Request) {
	o := h.gw.ListAccounts(r.Context(), principal(r.Context()))
	h.respond(w, r, o.Class, driver.Normalize(o, func(l models.AccountList) any {
		accounts := l.Accounts
		if accounts == nil {
			accounts = []models.AccountInfo{}
		}
		return models.AccountsResponse{Name: l.Owner.Name, NativeID: l.Owner.NativeID, Accounts: accounts}
	}))
}

func (h *handlers) check(w http.ResponseWriter, r *http.Request) {
	var req models.CheckRequest
	if msg, ok := decodeBody(r, &req); !ok {
		h.respond(w, r, driver.InvalidInput, driver.Normalize(driver.Fail[struct{}](driver.InvalidInput, msg), driver.Identity[struct{}]))
		return
	}
	o := h.gw.FetchAccount(r.Context(), principal(r.Context()), req.NativeID)
	h.respond(w, r, o.Class, driver.Normalize(o, func(models.AccountInfo) any { return struct{}{} }))
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	var req models.StatsRequest
	if msg, ok := decodeBody(r, &req); !ok {
		h.respond(w, r, driver.InvalidInput, driver.Normalize(driver.Fail[struct{}](driver.InvalidInput, msg), driver.Identity[struct{}]))
		return
	}
	loc := driver.ResolveLocation(req.TZ)
	if loc.Class != driver.Success {
		h.respond(w, r, loc.Class, driver.Normalize(loc, driver.Identity[*time.Location]))
		return
	}
	o := h.gw.FetchStats(r.Context(), principal(r.Context()), driver.StatsQuery{
		Account:  req.NativeID,
		Date:     *req.Date,
		Location: loc.Value,
	})
	h.respond(w, r, o.Class, driver.Normalize(o, func(rows []models.StatsRow) any {
		if rows == nil {
			return []models.StatsRow{}
		}
		return rows
	}))
}

func (h *handlers) respond(w http.ResponseWriter, r *http.Request, c driver.Class, resp driver.Response) {
	endpoint := r.URL.Path
	h.m.Outcome(endpoint, c.String())

	lvl := slog.LevelDebug
	if resp.Status >= http.StatusInternalServerError {
		lvl = slog.LevelError
	}
	if resp.Status >= http.StatusBadRequest {
		detail := ""
		if eb, ok := resp.Body.(models.ErrorBody); ok {
			detail = eb.Detail
		}
		h.log.Log(r.Context(), lvl, "request failed",
			slog.String("rid", utils.RID(r.Context())),
			slog.String("endpoint", endpoint),
			slog.String("subject", principal(r.Context()).Subject()),
			slog.String("class", c.String()),
			slog.Int("status", resp.Status),
			slog.String("detail", detail))
	}
	writeJSON(w, resp.Status, resp.Body)
}
