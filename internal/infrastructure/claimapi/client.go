// Package claimapi talks to the two external services the claim workflow
// depends on: the vehicle plate lookup and the guarantee (jaminan)
// monitor.
package claimapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"jrcts-claim-tracker/config"
	"jrcts-claim-tracker/pkg/dateutil"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	VehicleStatusError   = "ERROR"
	VehicleStatusUnknown = "UNKNOWN"

	vehicleSearchPath = "/cari_kendaraan"
	claimPath         = "/jaminan"
	monitorPath       = "/monitoring"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrInvalidBody      = errors.New("invalid JSON response")
)

// LookupError describes a failed call to one of the external endpoints.
type LookupError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s lookup failed (status %d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s lookup failed: %v", e.Endpoint, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// VehicleResult is the vehicle lookup outcome. Failures are reported in
// Status and Error rather than as a Go error.
type VehicleResult struct {
	Status       string           `json:"status"`
	Error        string           `json:"error,omitempty"`
	Transactions []map[string]any `json:"transactions"`
	Vehicle      map[string]any   `json:"vehicle"`
}

// LatestTransactionEnd returns the "akhir" field of the newest
// transaction. The service lists the newest transaction first.
func (r VehicleResult) LatestTransactionEnd() string {
	if len(r.Transactions) == 0 {
		return ""
	}
	v, ok := r.Transactions[0]["akhir"]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// AmountText accepts amounts encoded either as JSON strings ("21,500,000")
// or as bare numbers.
type AmountText string

func (a *AmountText) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = AmountText(n.String())
	return nil
}

// ClaimItem is one guarantee record returned by the jaminan and monitoring
// endpoints.
type ClaimItem struct {
	ClaimNumber     string     `json:"id_jaminan"`
	VictimName      string     `json:"nama_korban"`
	Hospital        string     `json:"rumah_sakit"`
	Status          string     `json:"status_jaminan"`
	RequestedAmount AmountText `json:"jml_pengajuan"`
	UsedAmount      AmountText `json:"jml_digunakan"`
	AdmissionDate   string     `json:"tgl_masuk"`
	DischargeDate   string     `json:"tgl_keluar"`
}

type ClaimResponse struct {
	Claims []ClaimItem `json:"klaim"`
}

type Client struct {
	claimHTTP   *resty.Client
	vehicleHTTP *resty.Client
	log         *logrus.Logger
}

func NewClient(cfg config.ExternalAPIConfig, log *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	newHTTP := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json")
	}

	return &Client{
		claimHTTP:   newHTTP(cfg.ClaimBaseURL),
		vehicleHTTP: newHTTP(cfg.VehicleBaseURL),
		log:         log,
	}
}

// VehicleLookup searches the vehicle service by plate number.
func (c *Client) VehicleLookup(ctx context.Context, plate string) VehicleResult {
	resp, err := c.vehicleHTTP.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"nopol": plate}).
		Post(vehicleSearchPath)
	if err != nil {
		c.log.Warnf("Vehicle lookup for %s failed: %+v", plate, err)
		return vehicleError(err.Error())
	}
	if !resp.IsSuccess() {
		c.log.Warnf("Vehicle lookup for %s returned status %d", plate, resp.StatusCode())
		return vehicleError(fmt.Sprintf("%s: %d", ErrUnexpectedStatus, resp.StatusCode()))
	}

	var body struct {
		Status       *string          `json:"status"`
		Transactions []map[string]any `json:"transactions"`
		Vehicle      map[string]any   `json:"vehicle"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		c.log.Warnf("Vehicle lookup for %s returned invalid JSON: %+v", plate, err)
		return vehicleError(ErrInvalidBody.Error())
	}

	result := VehicleResult{
		Status:       VehicleStatusUnknown,
		Transactions: body.Transactions,
		Vehicle:      body.Vehicle,
	}
	if body.Status != nil {
		result.Status = *body.Status
	}
	if result.Transactions == nil {
		result.Transactions = []map[string]any{}
	}
	if result.Vehicle == nil {
		result.Vehicle = map[string]any{}
	}
	return result
}

// ClaimLookup fetches the guarantee registered under claimNumber.
func (c *Client) ClaimLookup(ctx context.Context, claimNumber string, accidentDate time.Time) (*ClaimResponse, error) {
	return c.getClaims(ctx, claimPath, claimNumber, accidentDate)
}

// MonitorLookup fetches the payment monitor record for claimNumber.
func (c *Client) MonitorLookup(ctx context.Context, claimNumber string, accidentDate time.Time) (*ClaimResponse, error) {
	return c.getClaims(ctx, monitorPath, claimNumber, accidentDate)
}

func (c *Client) getClaims(ctx context.Context, path, claimNumber string, accidentDate time.Time) (*ClaimResponse, error) {
	startDate, err := dateutil.ToExternal(accidentDate)
	if err != nil {
		return nil, &LookupError{Endpoint: path, Err: err}
	}

	resp, err := c.claimHTTP.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id_jaminan": claimNumber,
			"tgl_awal":   startDate,
		}).
		Get(path)
	if err != nil {
		c.log.Warnf("Claim lookup %s for %s failed: %+v", path, claimNumber, err)
		return nil, &LookupError{Endpoint: path, Err: err}
	}
	if !resp.IsSuccess() {
		c.log.Warnf("Claim lookup %s for %s returned status %d", path, claimNumber, resp.StatusCode())
		return nil, &LookupError{Endpoint: path, StatusCode: resp.StatusCode(), Err: ErrUnexpectedStatus}
	}

	var result ClaimResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		c.log.Warnf("Claim lookup %s for %s returned invalid JSON: %+v", path, claimNumber, err)
		return nil, &LookupError{Endpoint: path, StatusCode: resp.StatusCode(), Err: fmt.Errorf("%w: %v", ErrInvalidBody, err)}
	}

	c.log.Debugf("Claim lookup %s for %s returned %d item(s)", path, claimNumber, len(result.Claims))
	return &result, nil
}

func vehicleError(msg string) VehicleResult {
	return VehicleResult{
		Status:       VehicleStatusError,
		Error:        msg,
		Transactions: []map[string]any{},
		Vehicle:      map[string]any{},
	}
}
