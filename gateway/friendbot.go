package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wunderlist/ttlcache"
	"golang.org/x/time/rate"

	"github.com/blockrockettech/stellar-playground/log"
)

// Friendbot funds fresh accounts through the test network bootstrap
// service, reachable only by public key. Funding an already funded
// account is an external no-op/error, so recently funded accounts are
// remembered for a while and skipped, and outgoing calls are rate
// limited to stay friendly to the shared service.
type Friendbot struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	funded  *ttlcache.Cache
}

// NewFriendbot creates a funder client against the bootstrap URL.
func NewFriendbot(url string, timeout time.Duration) *Friendbot {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Friendbot{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		funded:  ttlcache.NewCache(5 * time.Minute),
	}
}

// Fund asks the bootstrap service to give the account a minimal
// native balance.
func (f *Friendbot) Fund(ctx context.Context, accountID string) error {
	if _, ok := f.funded.Get(accountID); ok {
		log.Infow("account recently funded, skipping friendbot call", "account", accountID)
		return nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return ErrTimeout
	}

	url := fmt.Sprintf("%s/?addr=%s", f.url, accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create friendbot request failed: %v", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("friendbot funding failed with status %d", resp.StatusCode)
	}

	f.funded.Set(accountID, accountID)
	log.Infow("account funded via friendbot", "account", accountID)

	return nil
}
