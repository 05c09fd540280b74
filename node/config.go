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

package node

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const (
	GatewayEmbedded = "embedded"
	GatewayRemote   = "remote"
)

// Config holds the serve-time configuration of the playground node.
type Config struct {
	// network address of the http server
	Addr string
	// database backend, boltdb or memdb
	DBBackend string
	// database file path, required for boltdb
	DBPath string
	// gateway mode, embedded runs the in-process ledger, remote
	// talks to an external ledger endpoint
	GatewayMode string
	// base URL of the remote ledger endpoint
	GatewayURL string
	// base URL of the remote funding service
	FriendbotURL string
	// asset code applied when a request does not carry one
	AssetCode string
	// trustline limit applied when a request does not carry one
	TrustLimit int64
	// native balance used when one account activates another
	MinStartingBalance int64
	// emit debug-level logs
	Debug bool
}

func NewConfig(v *viper.Viper) (*Config, error) {
	c := &Config{
		Addr:               v.GetString("addr"),
		DBBackend:          v.GetString("db_backend"),
		DBPath:             v.GetString("db_path"),
		GatewayMode:        v.GetString("gateway_mode"),
		GatewayURL:         v.GetString("gateway_url"),
		FriendbotURL:       v.GetString("friendbot_url"),
		AssetCode:          v.GetString("asset_code"),
		TrustLimit:         v.GetInt64("trust_limit"),
		MinStartingBalance: v.GetInt64("min_starting_balance"),
		Debug:              v.GetBool("debug"),
	}

	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DBBackend == "" {
		c.DBBackend = "boltdb"
	}
	if c.GatewayMode == "" {
		c.GatewayMode = GatewayEmbedded
	}
	if c.AssetCode == "" {
		c.AssetCode = "STE"
	}
	if c.TrustLimit == 0 {
		c.TrustLimit = 10000
	}

	switch c.DBBackend {
	case "boltdb":
		if c.DBPath == "" {
			return nil, errors.New("db path is empty")
		}
	case "memdb":
	default:
		return nil, fmt.Errorf("unknown db backend: %s", c.DBBackend)
	}

	switch c.GatewayMode {
	case GatewayEmbedded:
	case GatewayRemote:
		if c.GatewayURL == "" {
			return nil, errors.New("gateway URL is empty")
		}
		if c.FriendbotURL == "" {
			return nil, errors.New("friendbot URL is empty")
		}
	default:
		return nil, fmt.Errorf("unknown gateway mode: %s", c.GatewayMode)
	}

	return c, nil
}
