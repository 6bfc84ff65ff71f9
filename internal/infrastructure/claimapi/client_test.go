package claimapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jrcts-claim-tracker/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewClient(config.ExternalAPIConfig{
		ClaimBaseURL:   srv.URL,
		VehicleBaseURL: srv.URL,
		Timeout:        2 * time.Second,
	}, log)
}

func TestVehicleLookup_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cari_kendaraan", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "DK-1234-AB", body["nopol"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"LUNAS","transactions":[{"akhir":"2025-12-31"},{"akhir":"2024-12-31"}],"vehicle":{"merk":"HONDA"}}`))
	})

	result := client.VehicleLookup(context.Background(), "DK-1234-AB")

	assert.Equal(t, "LUNAS", result.Status)
	assert.Empty(t, result.Error)
	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, "2025-12-31", result.LatestTransactionEnd())
	assert.Equal(t, "HONDA", result.Vehicle["merk"])
}

func TestVehicleLookup_MissingKeysGetDefaults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	result := client.VehicleLookup(context.Background(), "DK-1")

	assert.Equal(t, VehicleStatusUnknown, result.Status)
	assert.NotNil(t, result.Transactions)
	assert.NotNil(t, result.Vehicle)
	assert.Equal(t, "", result.LatestTransactionEnd())
}

func TestVehicleLookup_FailuresBecomeErrorStatus(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		result := client.VehicleLookup(context.Background(), "DK-1")
		assert.Equal(t, VehicleStatusError, result.Status)
		assert.NotEmpty(t, result.Error)
		assert.Empty(t, result.Transactions)
	})

	t.Run("invalid json", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		})
		result := client.VehicleLookup(context.Background(), "DK-1")
		assert.Equal(t, VehicleStatusError, result.Status)
		assert.Equal(t, ErrInvalidBody.Error(), result.Error)
	})

	t.Run("unreachable", func(t *testing.T) {
		log := logrus.New()
		log.SetOutput(io.Discard)
		client := NewClient(config.ExternalAPIConfig{
			ClaimBaseURL:   "http://127.0.0.1:1",
			VehicleBaseURL: "http://127.0.0.1:1",
			Timeout:        500 * time.Millisecond,
		}, log)
		result := client.VehicleLookup(context.Background(), "DK-1")
		assert.Equal(t, VehicleStatusError, result.Status)
		assert.NotEmpty(t, result.Error)
	})
}

func TestClaimLookup_SendsReformattedDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/jaminan", r.URL.Path)
		assert.Equal(t, "0700-2025-003708-04", r.URL.Query().Get("id_jaminan"))
		assert.Equal(t, "27/06/2025", r.URL.Query().Get("tgl_awal"))

		w.Write([]byte(`{"klaim":[{"id_jaminan":"0700-2025-003708-04","status_jaminan":"TERBIT GL","jml_pengajuan":"21,500,000","jml_digunakan":10779000,"tgl_masuk":"27/06/2025"}]}`))
	})

	resp, err := client.ClaimLookup(context.Background(), "0700-2025-003708-04", time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, resp.Claims, 1)

	item := resp.Claims[0]
	assert.Equal(t, "TERBIT GL", item.Status)
	assert.Equal(t, AmountText("21,500,000"), item.RequestedAmount)
	assert.Equal(t, AmountText("10779000"), item.UsedAmount)
	assert.Equal(t, "27/06/2025", item.AdmissionDate)
}

func TestMonitorLookup_UsesMonitoringPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/monitoring", r.URL.Path)
		w.Write([]byte(`{"klaim":[]}`))
	})

	resp, err := client.MonitorLookup(context.Background(), "NJ-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, resp.Claims)
}

func TestClaimLookup_FailuresAreLookupErrors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"klaim":[{"status_jaminan":"SUDAH DIBAYAR"}]}`))
		})
		_, err := client.ClaimLookup(context.Background(), "NJ-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

		var lookupErr *LookupError
		require.True(t, errors.As(err, &lookupErr))
		assert.Equal(t, http.StatusInternalServerError, lookupErr.StatusCode)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("invalid json", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		})
		_, err := client.MonitorLookup(context.Background(), "NJ-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, ErrInvalidBody)
	})

	t.Run("zero accident date", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		_, err := client.ClaimLookup(context.Background(), "NJ-1", time.Time{})

		var lookupErr *LookupError
		assert.True(t, errors.As(err, &lookupErr))
	})
}
