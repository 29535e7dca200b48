// Package gasprovider adapts go-ethereum's JSON-RPC client into the
// wallet.BlockGasProvider capability the gas-limit policy consults
// (spec.md §4.7). One *ethclient.Client is kept per zone, dialed from
// that zone's configured endpoint URL.
package gasprovider

import (
	"context"
	"fmt"
	"sync"

	"github.com/dominant-strategies/qi-wallet-sdk/internal/wallet"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "gasprovider")

// ZoneEndpoints maps a zone to the JSON-RPC URL of a node serving it.
type ZoneEndpoints map[wallet.Zone]string

// EthclientProvider implements wallet.BlockGasProvider by dialing one
// ethclient.Client per zone lazily and reading the latest header's gas
// limit through it.
type EthclientProvider struct {
	endpoints ZoneEndpoints

	mu      sync.Mutex
	clients map[wallet.Zone]*ethclient.Client
}

// NewEthclientProvider constructs a provider over the given per-zone
// RPC endpoints. Dialing is deferred to first use of each zone.
func NewEthclientProvider(endpoints ZoneEndpoints) *EthclientProvider {
	return &EthclientProvider{
		endpoints: endpoints,
		clients:   make(map[wallet.Zone]*ethclient.Client),
	}
}

func (p *EthclientProvider) clientFor(ctx context.Context, zone wallet.Zone) (*ethclient.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[zone]; ok {
		return c, nil
	}
	url, ok := p.endpoints[zone]
	if !ok {
		return nil, fmt.Errorf("gasprovider: no RPC endpoint configured for zone %s", zone)
	}
	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("gasprovider: dial %s: %w", zone, err)
	}
	p.clients[zone] = c
	log.WithField("zone", zone).Debug("dialed zone RPC endpoint")
	return c, nil
}

// CurrentBlock implements wallet.BlockGasProvider: it reads the latest
// header for zone and reports its gas limit.
func (p *EthclientProvider) CurrentBlock(ctx context.Context, zone wallet.Zone) (*wallet.BlockGasInfo, error) {
	c, err := p.clientFor(ctx, zone)
	if err != nil {
		return nil, err
	}
	header, err := c.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wallet.ErrBlockUnavailable, err)
	}
	return &wallet.BlockGasInfo{GasLimit: header.GasLimit}, nil
}

// Close releases every dialed client.
func (p *EthclientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for zone, c := range p.clients {
		c.Close()
		delete(p.clients, zone)
	}
}
