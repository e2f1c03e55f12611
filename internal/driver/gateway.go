package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AngelCh415/ads-driver/internal/models"
)

// Gateway is the account-scoped upstream data API. Implementations decide
// authorization per account only; credential format is already validated.
type Gateway interface {
	ListAccounts(ctx context.Context, p models.Principal) Outcome[models.AccountList]
	FetchAccount(ctx context.Context, p models.Principal, account string) Outcome[models.AccountInfo]
	FetchStats(ctx context.Context, p models.Principal, q StatsQuery) Outcome[[]models.StatsRow]
}

type StatsQuery struct {
	Account  string
	Date     models.Date
	Location *time.Location
}

// ResolveLocation maps an IANA zone name to a location. An empty name is UTC.
// "Local" is rejected since it depends on the host.
func ResolveLocation(name string) Outcome[*time.Location] {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ok(time.UTC)
	}
	if name == "Local" {
		return Fail[*time.Location](InvalidInput, "invalid timezone: "+name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Fail[*time.Location](InvalidInput, fmt.Sprintf("invalid timezone: %s", name))
	}
	return Ok(loc)
}
