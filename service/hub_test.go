package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blockrockettech/stellar-playground/db/memdb"
	"github.com/blockrockettech/stellar-playground/facade"
	"github.com/blockrockettech/stellar-playground/ledger"
	"github.com/blockrockettech/stellar-playground/registry"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	engine := ledger.NewEngine(memdb.New())
	f := facade.New(&facade.Context{
		Registry: registry.New(memdb.New()),
		Gateway:  engine,
		Funder:   engine,
	})
	server := httptest.NewServer(NewHandler(f, "STE", 10000))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	assert.Nil(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	assert.Nil(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.Nil(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCreateAndGetAccount(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/account/create", map[string]string{"accountName": "alice"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	created := &registry.Account{}
	decodeBody(t, resp, created)
	assert.Equal(t, "alice", created.Name)
	assert.NotEmpty(t, created.PublicKey)

	// creating again returns the same keypair
	resp = postJSON(t, server.URL+"/account/create", map[string]string{"accountName": "alice"})
	again := &registry.Account{}
	decodeBody(t, resp, again)
	assert.Equal(t, created.PublicKey, again.PublicKey)

	resp, err := http.Get(server.URL + "/account/get/alice")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/account/get/bob")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateAccountValidation(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/account/create", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestFundingRoutes(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/account/create", map[string]string{"accountName": "funder"})
	resp.Body.Close()
	resp = postJSON(t, server.URL+"/account/create", map[string]string{"accountName": "fresh"})
	resp.Body.Close()

	// unfunded accounts have no ledger state yet
	resp, err := http.Get(server.URL + "/account/load/fresh")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/account/fund/friendbot/funder")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/account/fund", map[string]string{
		"fromAccountName": "funder",
		"toAccountName":   "fresh",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/account/load/fresh")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// funding an already active account is rejected by the ledger
	resp = postJSON(t, server.URL+"/account/fund", map[string]string{
		"fromAccountName": "funder",
		"toAccountName":   "fresh",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestTrustlineAndTransferRoutes(t *testing.T) {
	server := newTestServer(t)

	for _, name := range []string{"issuer", "holder"} {
		resp := postJSON(t, server.URL+"/account/create", map[string]string{"accountName": name})
		resp.Body.Close()
	}
	resp, err := http.Get(server.URL + "/account/fund/friendbot/issuer")
	assert.Nil(t, err)
	resp.Body.Close()
	resp = postJSON(t, server.URL+"/account/fund", map[string]string{
		"fromAccountName": "issuer",
		"toAccountName":   "holder",
	})
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/trustline/check/holder")
	assert.Nil(t, err)
	check := &trustlineResponse{}
	decodeBody(t, resp, check)
	assert.False(t, check.Exists)

	resp = postJSON(t, server.URL+"/trustline/create", map[string]string{
		"fromAccountName": "holder",
		"toAccountName":   "issuer",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/trustline/check/holder")
	assert.Nil(t, err)
	decodeBody(t, resp, check)
	assert.True(t, check.Exists)

	resp = postJSON(t, server.URL+"/asset/transfer", map[string]interface{}{
		"assetAccountName": "issuer",
		"fromAccountName":  "issuer",
		"toAccountName":    "holder",
		"amount":           100,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/asset/transfer/prepaid", map[string]interface{}{
		"assetAccountName": "issuer",
		"fromAccountName":  "holder",
		"toAccountName":    "issuer",
		"amount":           40,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/trustline/clear", map[string]string{
		"fromAccountName": "holder",
		"toAccountName":   "issuer",
	})
	// the holder still carries credit, the ledger refuses to clear
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

// A transaction the builder refuses to assemble is the caller's
// fault and reports as a bad request, not a server failure.
func TestBuildFailureIsBadRequest(t *testing.T) {
	engine := ledger.NewEngine(memdb.New())
	f := facade.New(&facade.Context{
		Registry: registry.New(memdb.New()),
		Gateway:  engine,
		Funder:   engine,
	})
	// the asset code exceeds the 12 character ceiling
	server := httptest.NewServer(NewHandler(f, "THISCODEISTOOLONG", 10000))
	t.Cleanup(server.Close)

	for _, name := range []string{"issuer", "holder"} {
		resp := postJSON(t, server.URL+"/account/create", map[string]string{"accountName": name})
		resp.Body.Close()
	}
	resp, err := http.Get(server.URL + "/account/fund/friendbot/issuer")
	assert.Nil(t, err)
	resp.Body.Close()
	resp = postJSON(t, server.URL+"/account/fund", map[string]string{
		"fromAccountName": "issuer",
		"toAccountName":   "holder",
	})
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/trustline/create", map[string]string{
		"fromAccountName": "holder",
		"toAccountName":   "issuer",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestListAccountBalancesRoute(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/accounts/all")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var all []*facade.AccountBalances
	decodeBody(t, resp, &all)
	assert.Equal(t, 0, len(all))
}

func TestMetricsRoute(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/metrics")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
