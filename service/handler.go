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

package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/emicklei/go-restful"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blockrockettech/stellar-playground/facade"
	"github.com/blockrockettech/stellar-playground/log"
)

var (
	requestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playground_http_requests_total",
		Help: "Number of HTTP requests served, by route and status code.",
	}, []string{"route", "code"})
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "playground_http_request_duration_seconds",
		Help:    "HTTP request latency, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// NewHandler creates the http handler serving every playground route
// plus the prometheus metrics endpoint.
func NewHandler(f *facade.Facade, assetCode string, trustLimit int64) http.Handler {
	hub := NewHub(f, assetCode, trustLimit)

	ws := new(restful.WebService)
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	ws.Route(ws.POST("/account/create").To(hub.CreateAccount))
	ws.Route(ws.GET("/accounts/all").To(hub.ListAccountBalances))
	ws.Route(ws.POST("/account/configure").To(hub.ConfigureIssuer))
	ws.Route(ws.GET("/account/get/{accountName}").To(hub.GetAccount))
	ws.Route(ws.GET("/account/fund/friendbot/{accountName}").To(hub.FundViaFriendbot))
	ws.Route(ws.GET("/account/load/{accountName}").To(hub.LoadAccount))
	ws.Route(ws.POST("/account/fund").To(hub.FundAccount))
	ws.Route(ws.POST("/asset/create").To(hub.CreateAsset))
	ws.Route(ws.POST("/asset/transfer").To(hub.Transfer))
	ws.Route(ws.POST("/asset/transfer/prepaid").To(hub.PrepaidTransfer))
	ws.Route(ws.POST("/asset/transfer/thirdpartypaid").To(hub.ThirdPartyPrepaidTransfer))
	ws.Route(ws.POST("/asset/transfer/xdr").To(hub.ContinueTransfer))
	ws.Route(ws.POST("/native/transfer").To(hub.TransferNative))
	ws.Route(ws.GET("/trustline/check/{accountName}").To(hub.CheckTrustline))
	ws.Route(ws.POST("/trustline/create").To(hub.CreateTrustline))
	ws.Route(ws.POST("/trustline/create/prepaid").To(hub.CreatePrepaidTrustline))
	ws.Route(ws.POST("/trustline/clear").To(hub.ClearTrustline))

	ws.Filter(requestFilter)

	container := restful.NewContainer()
	container.Add(ws)
	container.Handle("/metrics", promhttp.Handler())

	return container
}

// requestFilter tags every request with an id, logs it and records
// the prometheus counters.
func requestFilter(request *restful.Request, response *restful.Response, chain *restful.FilterChain) {
	requestID := uuid.New().String()
	route := request.SelectedRoutePath()
	start := time.Now()

	log.Infow("request received", "id", requestID,
		"method", request.Request.Method, "route", route)

	chain.ProcessFilter(request, response)

	elapsed := time.Since(start)
	requestCount.WithLabelValues(route, strconv.Itoa(response.StatusCode())).Inc()
	requestLatency.WithLabelValues(route).Observe(elapsed.Seconds())

	log.Infow("request finished", "id", requestID, "route", route,
		"status", response.StatusCode(), "elapsed", elapsed)
}
