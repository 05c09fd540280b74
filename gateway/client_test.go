package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/blockrockettech/stellar-playground/txn"
)

func TestLoadAccountStatusMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts/known":
			json.NewEncoder(w).Encode(&AccountState{
				AccountID: "known",
				SeqNum:    7,
				Balances: []*BalanceLine{
					{Asset: txn.NativeAsset(), Balance: 1000},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)

	state, err := client.LoadAccount(context.Background(), "known")
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), state.SeqNum)
	assert.Equal(t, uint64(8), state.NextSeqNum())
	assert.Equal(t, int64(1000), state.Balances[0].Balance)

	_, err = client.LoadAccount(context.Background(), "unknown")
	assert.Equal(t, ErrAccountNotFound, err)
}

func TestSubmitTxRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		req := &submitRequest{}
		assert.Nil(t, json.NewDecoder(r.Body).Decode(req))
		assert.NotEmpty(t, req.Envelope)

		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(&rejectionResponse{Reason: "bad sequence number"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	env := txn.NewEnvelope(&txn.Tx{AccountID: "acc", SeqNum: 1})

	err := client.SubmitTx(context.Background(), env)
	submission, ok := err.(*SubmissionError)
	assert.True(t, ok)
	assert.Equal(t, "bad sequence number", submission.Reason)
}

func TestSubmitTxAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	env := txn.NewEnvelope(&txn.Tx{AccountID: "acc", SeqNum: 1})
	assert.Nil(t, client.SubmitTx(context.Background(), env))
}

func TestGatewayTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 50*time.Millisecond)
	_, err := client.LoadAccount(context.Background(), "slow")
	assert.Equal(t, ErrTimeout, err)
}

func TestFriendbotDedupe(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "acc", r.URL.Query().Get("addr"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	bot := NewFriendbot(server.URL, time.Second)
	ctx := context.Background()

	assert.Nil(t, bot.Fund(ctx, "acc"))
	// a repeated request inside the ttl window is served locally
	assert.Nil(t, bot.Fund(ctx, "acc"))
	assert.Equal(t, 1, calls)
}
