package core

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/vitrinewallet/vitrine/internal/chain"
	"github.com/vitrinewallet/vitrine/internal/config"
	"github.com/vitrinewallet/vitrine/internal/metrics"
	"github.com/vitrinewallet/vitrine/internal/token"
	vitrerr "github.com/vitrinewallet/vitrine/pkg/errors"
)

// balanceOfSelector is the 4-byte selector of ERC-20 balanceOf(address).
//
//nolint:gochecknoglobals // ABI constant
var balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// EVMCore is the in-process core implementation for EVM chains, backed by
// go-ethereum's RPC client. Address records come from configuration; all
// balance queries go to the configured per-chain RPC endpoints.
type EVMCore struct {
	cfg     *config.Config
	logger  *config.Logger
	limiter *chain.RateLimiter

	records map[string]AddressRecord
	order   []string

	mu      sync.Mutex
	clients map[chain.ID]*ethclient.Client
}

// Compile-time interface check
var _ Client = (*EVMCore)(nil)

// NewEVMCore creates a core client from configuration. Address entries are
// validated eagerly so a bad config fails at startup, not mid-refresh.
func NewEVMCore(cfg *config.Config, logger *config.Logger) (*EVMCore, error) {
	if logger == nil {
		logger = config.NullLogger()
	}

	c := &EVMCore{
		cfg:     cfg,
		logger:  logger,
		limiter: chain.NewRateLimiter(cfg.Refresh.RatePerSecond, cfg.Refresh.Burst),
		records: make(map[string]AddressRecord),
		clients: make(map[chain.ID]*ethclient.Client),
	}

	for _, ac := range cfg.Addresses {
		record, err := recordFromConfig(ac)
		if err != nil {
			return nil, err
		}
		if _, dup := c.records[record.ID]; dup {
			continue // same address listed twice; ids are deterministic
		}
		c.records[record.ID] = record
		c.order = append(c.order, record.ID)
	}

	return c, nil
}

// recordFromConfig validates one configured address and builds its record.
func recordFromConfig(ac config.AddressConfig) (AddressRecord, error) {
	chainID, ok := chain.ParseID(ac.Chain)
	if !ok {
		err := vitrerr.WithDetails(vitrerr.ErrUnsupportedChain, map[string]string{"chain": ac.Chain})
		if suggestion := chain.Suggest(ac.Chain); suggestion != "" {
			err = vitrerr.WithSuggestion(err, fmt.Sprintf("did you mean %q?", suggestion))
		}
		return AddressRecord{}, err
	}

	if !common.IsHexAddress(ac.Address) {
		return AddressRecord{}, vitrerr.WithDetails(vitrerr.ErrInvalidAddress, map[string]string{
			"address": ac.Address,
			"chain":   ac.Chain,
		})
	}

	kind := Kind(ac.Kind)
	if kind != KindWallet && kind != KindDapp {
		kind = KindWallet
	}

	checksummed := common.HexToAddress(ac.Address).Hex()
	return AddressRecord{
		ID:      EntityID(chainID, checksummed),
		Account: ac.Account,
		Kind:    kind,
		ChainID: chainID,
		Address: checksummed,
		Label:   ac.Label,
	}, nil
}

// ListAddresses returns the tracked address records in configuration order.
func (c *EVMCore) ListAddresses(_ context.Context) ([]AddressRecord, error) {
	out := make([]AddressRecord, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.records[id])
	}
	return out, nil
}

// FetchNativeBalance retrieves the native token balance for an entity.
func (c *EVMCore) FetchNativeBalance(ctx context.Context, entityID string) (token.Token, error) {
	record, ok := c.records[entityID]
	if !ok {
		return token.Token{}, vitrerr.WithDetails(vitrerr.ErrEntityNotFound, map[string]string{"entity": entityID})
	}

	client, rpcURL, err := c.dial(record.ChainID)
	if err != nil {
		return token.Token{}, c.queryError(entityID, err)
	}

	if err = c.limiter.Wait(ctx, rpcURL); err != nil {
		return token.Token{}, c.queryError(entityID, err)
	}

	start := time.Now()
	balance, err := chain.Retry(ctx, func() (*big.Int, error) {
		bal, fetchErr := client.BalanceAt(ctx, common.HexToAddress(record.Address), nil)
		if fetchErr != nil {
			return nil, chain.WrapRetryable(fetchErr)
		}
		return bal, nil
	})
	metrics.Global.RecordCoreCall(time.Since(start), err)
	if err != nil {
		return token.Token{}, c.queryError(entityID, err)
	}

	return token.Native(record.ChainID).WithAmount(balance, time.Now().UTC()), nil
}

// FetchFungibleBalances retrieves the tracked ERC-20 balances for an entity.
// The result preserves the configured token order.
func (c *EVMCore) FetchFungibleBalances(ctx context.Context, entityID string) ([]token.Token, error) {
	record, ok := c.records[entityID]
	if !ok {
		return nil, vitrerr.WithDetails(vitrerr.ErrEntityNotFound, map[string]string{"entity": entityID})
	}

	network, _ := c.cfg.Network(record.ChainID)
	if len(network.Tokens) == 0 {
		return nil, nil
	}

	client, rpcURL, err := c.dial(record.ChainID)
	if err != nil {
		return nil, c.queryError(entityID, err)
	}

	holder := common.HexToAddress(record.Address)
	out := make([]token.Token, 0, len(network.Tokens))

	for _, tc := range network.Tokens {
		if err = c.limiter.Wait(ctx, rpcURL); err != nil {
			return nil, c.queryError(entityID, err)
		}

		start := time.Now()
		amount, callErr := chain.Retry(ctx, func() (*big.Int, error) {
			bal, fetchErr := c.callBalanceOf(ctx, client, tc.Address, holder)
			if fetchErr != nil {
				return nil, chain.WrapRetryable(fetchErr)
			}
			return bal, nil
		})
		metrics.Global.RecordCoreCall(time.Since(start), callErr)
		if callErr != nil {
			return nil, c.queryError(entityID, callErr)
		}

		tok := token.Fungible(record.ChainID, tc.Symbol, tc.Address, tc.Decimals)
		out = append(out, tok.WithAmount(amount, time.Now().UTC()))
	}

	return out, nil
}

// callBalanceOf issues an eth_call for ERC-20 balanceOf(holder).
func (c *EVMCore) callBalanceOf(ctx context.Context, client *ethclient.Client, contract string, holder common.Address) (*big.Int, error) {
	contractAddr := common.HexToAddress(contract)
	msg := ethereum.CallMsg{
		To:   &contractAddr,
		Data: packBalanceOf(holder),
	}

	result, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty balanceOf result from %s", contract)
	}

	return new(big.Int).SetBytes(result), nil
}

// packBalanceOf builds the calldata for balanceOf(address).
func packBalanceOf(holder common.Address) []byte {
	data := make([]byte, 0, 36)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(holder.Bytes(), 32)...)
	return data
}

// dial returns a connected client for the chain, trying fallback RPCs when
// the primary fails. Clients are cached per chain; go-ethereum's HTTP
// client connects lazily, so dialing is cheap and network errors surface on
// the first query.
func (c *EVMCore) dial(chainID chain.ID) (*ethclient.Client, string, error) {
	network, ok := c.cfg.Network(chainID)
	if !ok || !network.Enabled {
		return nil, "", vitrerr.WithDetails(vitrerr.ErrUnsupportedChain, map[string]string{"chain": chainID.String()})
	}
	if network.RPC == "" {
		return nil, "", vitrerr.WithSuggestion(
			vitrerr.ErrNetworkError,
			fmt.Sprintf("no RPC configured for %s; set networks.%s.rpc or VITRINE_%s_RPC", chainID, chainID, chainID),
		)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if client, exists := c.clients[chainID]; exists {
		return client, network.RPC, nil
	}

	client, err := ethclient.Dial(network.RPC)
	if err == nil {
		c.clients[chainID] = client
		return client, network.RPC, nil
	}

	for _, fallbackURL := range network.FallbackRPCs {
		client, err = ethclient.Dial(fallbackURL)
		if err == nil {
			c.logger.Debug("using fallback RPC %s for %s", fallbackURL, chainID)
			c.clients[chainID] = client
			return client, fallbackURL, nil
		}
	}

	return nil, "", err
}

// queryError wraps any fetch failure into the core query error kind and
// logs it with the entity id for diagnosis.
func (c *EVMCore) queryError(entityID string, err error) error {
	c.logger.Error("core query failed for %s: %v", entityID, err)
	return &vitrerr.VitrineError{
		Code:     vitrerr.ErrCoreQuery.Code,
		Message:  vitrerr.ErrCoreQuery.Message,
		Details:  map[string]string{"entity": entityID},
		Cause:    err,
		ExitCode: vitrerr.ErrCoreQuery.ExitCode,
	}
}
