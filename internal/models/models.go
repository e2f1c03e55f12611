package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Credential headers, shared by the driver API and the upstream wire protocol.
const (
	HeaderToken    = "Authorization-Token"
	HeaderLogin    = "Authorization-Login"
	HeaderPassword = "Authorization-Password"
)

var ErrInvalidDate = errors.New("invalid date")

type AuthMode string

const (
	AuthToken AuthMode = "token"
	AuthLogin AuthMode = "login"
)

// Credentials as supplied on a single request. Which fields matter depends
// on the deployment's AuthMode.
type Credentials struct {
	Token    string
	Login    string
	Password string
}

// Principal is only ever produced by an Authenticator.
type Principal struct {
	Mode        AuthMode
	Credentials Credentials
}

// Subject is safe to log.
func (p Principal) Subject() string {
	switch p.Mode {
	case AuthLogin:
		return p.Credentials.Login
	case AuthToken:
		return "token"
	}
	return ""
}

// Date is a calendar day encoded as "YYYY-MM-DD".
type Date struct{ time.Time }

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: expected a YYYY-MM-DD string", ErrInvalidDate)
	}
	p, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

type InfoResponse struct {
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	AuthType AuthMode `json:"auth_type"`
}

type AccountInfo struct {
	Name     string `json:"name" validate:"required"`
	NativeID string `json:"native_id" validate:"required"`
}

// AccountList is the API user plus the accounts it can read.
type AccountList struct {
	Owner    AccountInfo
	Accounts []AccountInfo
}

type AccountsResponse struct {
	Name     string        `json:"name" validate:"required"`
	NativeID string        `json:"native_id" validate:"required"`
	Accounts []AccountInfo `json:"accounts" validate:"dive"`
}

// StatsRow is one reporting record for a campaign on a given day.
type StatsRow struct {
	Date          Date   `json:"date"`
	AdAccount     string `json:"ad_account" validate:"required"`
	AdAccountName string `json:"ad_account_name"`
	Campaign      string `json:"campaign"`
	CampaignID    string `json:"campaign_id" validate:"required"`
	AdGroup       string `json:"adgroup"`
	AdGroupID     string `json:"adgroup_id"`
	Ad            string `json:"ad"`
	AdID          string `json:"ad_id"`
	Country       string `json:"country"`
	AdNetwork     string `json:"ad_network"`

	Spend             decimal.Decimal `json:"spend"`
	Impressions       int             `json:"impressions" validate:"gte=0"`
	Clicks            int             `json:"clicks" validate:"gte=0"`
	Purchases         int             `json:"purchases" validate:"gte=0"`
	LinkClicks        int             `json:"link_clicks" validate:"gte=0"`
	AddsToCart        int             `json:"adds_to_cart" validate:"gte=0"`
	AdNetworkInstalls int             `json:"ad_network_installs" validate:"gte=0"`
	ActionsLead       int             `json:"actions_lead" validate:"gte=0"`
	ActionsPixelLead  int             `json:"actions_pixel_lead" validate:"gte=0"`
	AdNetworkSessions int             `json:"ad_network_sessions" validate:"gte=0"`
	AllConversions    int             `json:"all_conversions" validate:"gte=0"`
}

type CheckRequest struct {
	NativeID string `json:"native_id" validate:"required"`
}

type StatsRequest struct {
	Date     *Date  `json:"date" validate:"required"`
	NativeID string `json:"native_id" validate:"required"`
	TZ       string `json:"tz"`
}

// BodyCredentials are the optional in-body equivalents of the auth headers.
type BodyCredentials struct {
	AuthorizationToken    string `json:"authorization_token"`
	AuthorizationLogin    string `json:"authorization_login"`
	AuthorizationPassword string `json:"authorization_password"`
}

type ErrorBody struct {
	Detail string `json:"detail"`
}
