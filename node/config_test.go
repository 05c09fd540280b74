package node

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	v := viper.New()
	v.Set("db_path", "test.db")

	c, err := NewConfig(v)
	assert.Nil(t, err)
	assert.Equal(t, ":3000", c.Addr)
	assert.Equal(t, "boltdb", c.DBBackend)
	assert.Equal(t, GatewayEmbedded, c.GatewayMode)
	assert.Equal(t, "STE", c.AssetCode)
	assert.Equal(t, int64(10000), c.TrustLimit)
	assert.False(t, c.Debug)

	v.Set("debug", true)
	c, err = NewConfig(v)
	assert.Nil(t, err)
	assert.True(t, c.Debug)
}

func TestConfigValidation(t *testing.T) {
	// boltdb without a path
	v := viper.New()
	_, err := NewConfig(v)
	assert.NotNil(t, err)

	// memdb needs no path
	v = viper.New()
	v.Set("db_backend", "memdb")
	_, err = NewConfig(v)
	assert.Nil(t, err)

	// remote mode needs the endpoint URLs
	v = viper.New()
	v.Set("db_backend", "memdb")
	v.Set("gateway_mode", GatewayRemote)
	_, err = NewConfig(v)
	assert.NotNil(t, err)

	v.Set("gateway_url", "http://ledger.example.com")
	v.Set("friendbot_url", "http://friendbot.example.com")
	c, err := NewConfig(v)
	assert.Nil(t, err)
	assert.Equal(t, GatewayRemote, c.GatewayMode)

	// unknown backend
	v = viper.New()
	v.Set("db_backend", "rocksdb")
	_, err = NewConfig(v)
	assert.NotNil(t, err)
}
