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

package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blockrockettech/stellar-playground/log"
	"github.com/blockrockettech/stellar-playground/node"
)

var cfgFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the playground http API",
	Long: `Serve the playground http API. Without a config file the node
runs with an embedded in-process ledger, with a config file it can be
pointed at a remote ledger endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		v := viper.New()
		v.BindPFlags(cmd.Flags())
		if cfgFile != "" {
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				log.Fatalf("read config file failed: %v", err)
			}
		}

		c, err := node.NewConfig(v)
		if err != nil {
			log.Fatalf("parse config failed: %v", err)
		}

		n := node.NewNode(c)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-stop
			log.Infow("shutting down")
			n.Stop()
		}()

		n.Start()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	serveCmd.Flags().String("addr", ":3000", "network address of the http server")
	serveCmd.Flags().String("db_backend", "boltdb", "database backend, boltdb or memdb")
	serveCmd.Flags().String("db_path", "playground.db", "database file path")
	serveCmd.Flags().String("gateway_mode", node.GatewayEmbedded, "ledger gateway mode, embedded or remote")
	serveCmd.Flags().String("gateway_url", "", "base URL of the remote ledger endpoint")
	serveCmd.Flags().String("friendbot_url", "", "base URL of the remote funding service")
	serveCmd.Flags().String("asset_code", "STE", "default asset code")
	serveCmd.Flags().Int64("trust_limit", 10000, "default trustline limit")
	serveCmd.Flags().Int64("min_starting_balance", 0, "native balance used to activate accounts")
	serveCmd.Flags().Bool("debug", false, "emit debug-level logs")
	rootCmd.AddCommand(serveCmd)
}
