// Copyright 2019 The stellar-playground Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package service exposes the facade workflows over HTTP. The route
// shapes follow the playground's original API so existing clients
// keep working.
package service

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful"

	"github.com/blockrockettech/stellar-playground/facade"
	"github.com/blockrockettech/stellar-playground/gateway"
	"github.com/blockrockettech/stellar-playground/log"
	"github.com/blockrockettech/stellar-playground/registry"
	"github.com/blockrockettech/stellar-playground/txn/build"
)

// Hub adapts the facade workflows to HTTP handlers.
type Hub struct {
	facade *facade.Facade

	// defaults applied when the route does not carry them
	assetCode  string
	trustLimit int64
}

func NewHub(f *facade.Facade, assetCode string, trustLimit int64) *Hub {
	return &Hub{
		facade:     f,
		assetCode:  assetCode,
		trustLimit: trustLimit,
	}
}

type accountRequest struct {
	AccountName string `json:"accountName"`
}

type fundRequest struct {
	FromAccountName string `json:"fromAccountName"`
	ToAccountName   string `json:"toAccountName"`
}

type assetRequest struct {
	AccountName string `json:"accountName"`
	AssetCode   string `json:"assetCode"`
}

type transferRequest struct {
	AssetAccountName      string `json:"assetAccountName"`
	ThirdPartyAccountName string `json:"thirdPartyAccountName"`
	FromAccountName       string `json:"fromAccountName"`
	ToAccountName         string `json:"toAccountName"`
	Amount                int64  `json:"amount"`
}

type continueRequest struct {
	SignerAccountName string `json:"signerAccountName"`
	Envelope          string `json:"envelope"`
}

type trustlineRequest struct {
	FromAccountName string `json:"fromAccountName"`
	ToAccountName   string `json:"toAccountName"`
	Limit           int64  `json:"limit"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type trustlineResponse struct {
	Exists bool `json:"exists"`
}

var okStatus = &statusResponse{Status: "ok"}

func (h *Hub) CreateAccount(request *restful.Request, response *restful.Response) {
	req := &accountRequest{}
	if err := request.ReadEntity(req); err != nil || req.AccountName == "" {
		writeBadRequest(response, "accountName is required")
		return
	}
	account, err := h.facade.CreateAccount(req.AccountName)
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(account)
}

func (h *Hub) GetAccount(request *restful.Request, response *restful.Response) {
	account, err := h.facade.GetAccount(request.PathParameter("accountName"))
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(account)
}

func (h *Hub) ListAccountBalances(request *restful.Request, response *restful.Response) {
	all, err := h.facade.ListAccountBalances(request.Request.Context())
	if err != nil {
		writeError(response, err)
		return
	}
	if all == nil {
		all = []*facade.AccountBalances{}
	}
	response.WriteEntity(all)
}

func (h *Hub) LoadAccount(request *restful.Request, response *restful.Response) {
	state, err := h.facade.LoadAccount(request.Request.Context(), request.PathParameter("accountName"))
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(state)
}

func (h *Hub) ConfigureIssuer(request *restful.Request, response *restful.Response) {
	req := &accountRequest{}
	if err := request.ReadEntity(req); err != nil || req.AccountName == "" {
		writeBadRequest(response, "accountName is required")
		return
	}
	if err := h.facade.ConfigureIssuer(request.Request.Context(), req.AccountName); err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

func (h *Hub) FundViaFriendbot(request *restful.Request, response *restful.Response) {
	name := request.PathParameter("accountName")
	if err := h.facade.FundViaFriendbot(request.Request.Context(), name); err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

func (h *Hub) FundAccount(request *restful.Request, response *restful.Response) {
	req := &fundRequest{}
	if err := request.ReadEntity(req); err != nil || req.FromAccountName == "" || req.ToAccountName == "" {
		writeBadRequest(response, "fromAccountName and toAccountName are required")
		return
	}
	if err := h.facade.FundAccount(request.Request.Context(), req.FromAccountName, req.ToAccountName); err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

func (h *Hub) CreateAsset(request *restful.Request, response *restful.Response) {
	req := &assetRequest{}
	if err := request.ReadEntity(req); err != nil || req.AccountName == "" {
		writeBadRequest(response, "accountName is required")
		return
	}
	code := req.AssetCode
	if code == "" {
		code = h.assetCode
	}
	asset, err := h.facade.CreateAsset(req.AccountName, code)
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(asset)
}

func (h *Hub) Transfer(request *restful.Request, response *restful.Response) {
	req, ok := h.readTransfer(request, response)
	if !ok {
		return
	}
	err := h.facade.Transfer(request.Request.Context(),
		req.AssetAccountName, req.FromAccountName, req.ToAccountName, h.assetCode, req.Amount)
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

func (h *Hub) PrepaidTransfer(request *restful.Request, response *restful.Response) {
	req, ok := h.readTransfer(request, response)
	if !ok {
		return
	}
	err := h.facade.PrepaidTransfer(request.Request.Context(),
		req.AssetAccountName, req.FromAccountName, req.ToAccountName, h.assetCode, req.Amount)
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

func (h *Hub) ThirdPartyPrepaidTransfer(request *restful.Request, response *restful.Response) {
	req, ok := h.readTransfer(request, response)
	if !ok {
		return
	}
	if req.ThirdPartyAccountName == "" {
		writeBadRequest(response, "thirdPartyAccountName is required")
		return
	}
	err := h.facade.ThirdPartyPrepaidTransfer(request.Request.Context(),
		req.ThirdPartyAccountName, req.AssetAccountName, req.FromAccountName, req.ToAccountName,
		h.assetCode, req.Amount)
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

// ContinueTransfer completes a transfer from a serialized envelope,
// the final signer comes from the request rather than a fixed role.
func (h *Hub) ContinueTransfer(request *restful.Request, response *restful.Response) {
	req := &continueRequest{}
	if err := request.ReadEntity(req); err != nil || req.SignerAccountName == "" || req.Envelope == "" {
		writeBadRequest(response, "signerAccountName and envelope are required")
		return
	}
	if err := h.facade.ContinueTransfer(request.Request.Context(), req.SignerAccountName, req.Envelope); err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

func (h *Hub) TransferNative(request *restful.Request, response *restful.Response) {
	req := &transferRequest{}
	if err := request.ReadEntity(req); err != nil || req.FromAccountName == "" || req.ToAccountName == "" || req.Amount <= 0 {
		writeBadRequest(response, "fromAccountName, toAccountName and a positive amount are required")
		return
	}
	err := h.facade.TransferNative(request.Request.Context(), req.FromAccountName, req.ToAccountName, req.Amount)
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

func (h *Hub) CheckTrustline(request *restful.Request, response *restful.Response) {
	name := request.PathParameter("accountName")
	exists, err := h.facade.CheckTrustline(request.Request.Context(), name, h.assetCode)
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(&trustlineResponse{Exists: exists})
}

func (h *Hub) CreateTrustline(request *restful.Request, response *restful.Response) {
	req, ok := h.readTrustline(request, response)
	if !ok {
		return
	}
	err := h.facade.CreateTrustline(request.Request.Context(),
		req.FromAccountName, req.ToAccountName, h.assetCode, req.Limit)
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

func (h *Hub) CreatePrepaidTrustline(request *restful.Request, response *restful.Response) {
	req, ok := h.readTrustline(request, response)
	if !ok {
		return
	}
	err := h.facade.CreatePrepaidTrustline(request.Request.Context(),
		req.FromAccountName, req.ToAccountName, h.assetCode, req.Limit)
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

func (h *Hub) ClearTrustline(request *restful.Request, response *restful.Response) {
	req := &trustlineRequest{}
	if err := request.ReadEntity(req); err != nil || req.FromAccountName == "" || req.ToAccountName == "" {
		writeBadRequest(response, "fromAccountName and toAccountName are required")
		return
	}
	err := h.facade.ClearTrustline(request.Request.Context(),
		req.FromAccountName, req.ToAccountName, h.assetCode)
	if err != nil {
		writeError(response, err)
		return
	}
	response.WriteEntity(okStatus)
}

func (h *Hub) readTransfer(request *restful.Request, response *restful.Response) (*transferRequest, bool) {
	req := &transferRequest{}
	if err := request.ReadEntity(req); err != nil ||
		req.AssetAccountName == "" || req.FromAccountName == "" || req.ToAccountName == "" || req.Amount <= 0 {
		writeBadRequest(response, "assetAccountName, fromAccountName, toAccountName and a positive amount are required")
		return nil, false
	}
	return req, true
}

func (h *Hub) readTrustline(request *restful.Request, response *restful.Response) (*trustlineRequest, bool) {
	req := &trustlineRequest{}
	if err := request.ReadEntity(req); err != nil || req.FromAccountName == "" || req.ToAccountName == "" {
		writeBadRequest(response, "fromAccountName and toAccountName are required")
		return nil, false
	}
	if req.Limit <= 0 {
		req.Limit = h.trustLimit
	}
	return req, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeBadRequest(response *restful.Response, msg string) {
	response.WriteHeaderAndEntity(http.StatusBadRequest, &errorResponse{Error: msg})
}

// writeError maps the facade error taxonomy onto status codes:
// unknown names and unfunded accounts are 404, ledger rejections are
// 422, gateway trouble is 502 or 504, anything else is 500.
func writeError(response *restful.Response, err error) {
	status := http.StatusInternalServerError

	var submission *gateway.SubmissionError
	switch {
	case errors.Is(err, registry.ErrNotFound) || errors.Is(err, gateway.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, registry.ErrEmptyName) || errors.Is(err, build.ErrInvalidTx):
		status = http.StatusBadRequest
	case errors.As(err, &submission):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, gateway.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, gateway.ErrUnavailable):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		log.Errorw("request failed", "error", err)
	}
	response.WriteHeaderAndEntity(status, &errorResponse{Error: err.Error()})
}
