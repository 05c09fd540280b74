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

// Package node wires the playground components together from a
// config and runs the http server.
package node

import (
	"context"
	"net/http"
	"time"

	"github.com/blockrockettech/stellar-playground/db"
	"github.com/blockrockettech/stellar-playground/db/boltdb"
	"github.com/blockrockettech/stellar-playground/db/memdb"
	"github.com/blockrockettech/stellar-playground/facade"
	"github.com/blockrockettech/stellar-playground/gateway"
	"github.com/blockrockettech/stellar-playground/ledger"
	"github.com/blockrockettech/stellar-playground/log"
	"github.com/blockrockettech/stellar-playground/registry"
	"github.com/blockrockettech/stellar-playground/service"
)

// Node is the central controller for the playground.
type Node struct {
	config   *Config
	database db.Database
	server   *http.Server
}

// NewNode builds the full component stack from the config: database,
// registry, ledger gateway, facade and the http server.
func NewNode(conf *Config) *Node {
	log.SetDebug(conf.Debug)

	var database db.Database
	switch conf.DBBackend {
	case "memdb":
		database = memdb.New()
	default:
		database = boltdb.New(conf.DBPath)
	}

	var gw gateway.Gateway
	var funder gateway.Funder
	switch conf.GatewayMode {
	case GatewayRemote:
		gw = gateway.NewHTTPClient(conf.GatewayURL, 10*time.Second)
		funder = gateway.NewFriendbot(conf.FriendbotURL, 30*time.Second)
		log.Infow("using remote ledger gateway", "url", conf.GatewayURL)
	default:
		engine := ledger.NewEngine(database)
		gw = engine
		funder = engine
		log.Infow("using embedded ledger engine")
	}

	f := facade.New(&facade.Context{
		Registry:           registry.New(database),
		Gateway:            gw,
		Funder:             funder,
		MinStartingBalance: conf.MinStartingBalance,
	})

	server := &http.Server{
		Addr:    conf.Addr,
		Handler: service.NewHandler(f, conf.AssetCode, conf.TrustLimit),
	}

	return &Node{
		config:   conf,
		database: database,
		server:   server,
	}
}

// Start runs the http server until it is stopped.
func (n *Node) Start() {
	log.Infow("playground node listening", "addr", n.config.Addr)
	if err := n.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("http server failed: %v", err)
	}
}

// Stop drains in-flight requests and closes the database.
func (n *Node) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := n.server.Shutdown(ctx); err != nil {
		log.Errorf("http server shutdown failed: %v", err)
	}
	if err := n.database.Close(); err != nil {
		log.Errorf("close database failed: %v", err)
	}
}
