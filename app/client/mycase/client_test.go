package mycase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"casebot/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(config.MyCase{
		APIURL:     srv.URL + "/",
		Timeout:    2 * time.Second,
		RetryDelay: time.Millisecond,
	}, nil)
}

func TestFindByCaseNumber_SendsHints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cases/12345", r.URL.Path)
		assert.Equal(t, "J", r.URL.Query().Get("courtType"))
		assert.Equal(t, "L1", r.URL.Query().Get("locationCode"))
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{
			"case_number":"12345","court_type":"J","location_code":"L1","case_title":"State v. Doe",
			"case_security":"Sealed","next_hearing_date":"03/01/2024 9:00 AM",
			"court_name":"Provo Justice Court","location":{"city":"Provo"}}]}`))
	})

	cases, err := client.FindByCaseNumber(context.Background(), "Bearer abc", Query{
		CaseNumber:   "12345",
		CourtType:    CourtJustice,
		LocationCode: "L1",
	})
	require.NoError(t, err)
	require.Len(t, cases, 1)

	c := cases[0]
	assert.Equal(t, CourtJustice, c.CourtType)
	assert.True(t, c.Security.Restricted())
	assert.Equal(t, "Provo Justice Court, Provo", c.Place())

	at, ok := c.HearingTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), at)
}

func TestFindByCaseNumber_OmitsEmptyHints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	cases, err := client.FindByCaseNumber(context.Background(), "Bearer abc", Query{CaseNumber: "1"})
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestGet_RetriesTransientOnce(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		_, _ = w.Write([]byte(`{"data":[{"case_number":"1","court_type":"district"}]}`))
	})

	cases, err := client.ListCases(context.Background(), "Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, CourtDistrict, cases[0].CourtType)
}

func TestGet_GivesUpAfterOneRetry(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListCases(context.Background(), "Bearer abc")
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestGet_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"expired"}`))
	})

	_, err := client.Charges(context.Background(), "Bearer abc", Query{CaseNumber: "1", CourtType: CourtDistrict})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestDetailEndpoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "D", r.URL.Query().Get("courtType"))

		switch r.URL.Path {
		case "/cases/9/history":
			_, _ = w.Write([]byte(`{"data":{"url":"https://files.example.com/9"}}`))
		case "/cases/9/parties":
			_, _ = w.Write([]byte(`{"data":[{"type":"Plaintiff","party":"ACME","represented_by":""}]}`))
		case "/cases/9/payment":
			_, _ = w.Write([]byte(`{"data":{"int_case_number":"77","epay_amount":"10.00"}}`))
		case "/cases/9/documents":
			_, _ = w.Write([]byte(`{"data":null}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	q := Query{CaseNumber: "9", CourtType: CourtDistrict, LocationCode: "L9"}

	history, err := client.CaseHistory(ctx, "c", q)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/9", history.URL)

	parties, err := client.Parties(ctx, "c", q)
	require.NoError(t, err)
	assert.Equal(t, "ACME", parties[0].Party)

	payment, err := client.PaymentInfo(ctx, "c", q)
	require.NoError(t, err)
	assert.Equal(t, "10.00", payment.Amount)

	docs, err := client.DocumentUploadURLs(ctx, "c", q)
	require.NoError(t, err)
	assert.Nil(t, docs)
}

func TestParseCourtType(t *testing.T) {
	for in, want := range map[string]CourtType{"J": CourtJustice, "justice": CourtJustice, "d": CourtDistrict, "District": CourtDistrict, "": ""} {
		got, err := ParseCourtType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCourtType("appellate")
	require.Error(t, err)
}

func TestListCases_UnknownCourtCodeIsDistrict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"case_number":"1","court_type":"J"},
			{"case_number":"2","court_type":"A"}
		]}`))
	})

	cases, err := client.ListCases(context.Background(), "Bearer abc")
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, CourtJustice, cases[0].CourtType)
	assert.Equal(t, CourtDistrict, cases[1].CourtType)
}
