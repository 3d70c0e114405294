package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	sdkconfig "github.com/solrazr/tokensale-go-sdk/pkg/config"
	sdkrpc "github.com/solrazr/tokensale-go-sdk/pkg/rpc"
	"github.com/solrazr/tokensale-go-sdk/pkg/txbuilder"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOpts struct {
	rpcURL         string
	commitment     string
	payerPath      string
	skipPreflight  bool
	retryAttempts  int
	retryBackoffMs int
	rateLimitRPS   float64
	logLevel       string
	timeoutSec     int

	saleProgram      string
	whitelistProgram string
	whitelistMap     string
	usdtMint         string
	saleMint         string
	settleDelaySec   int
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:   "salecli",
		Short: "SOLR token-sale client (init, fund, execute)",
	}

	root.PersistentFlags().StringVar(&opts.rpcURL, "rpc-url", "", "RPC endpoint (default mainnet if empty)")
	root.PersistentFlags().StringVar(&opts.commitment, "commitment", "finalized", "RPC commitment level")
	root.PersistentFlags().StringVar(&opts.payerPath, "payer", "", "path to solana-keygen json for fee payer")
	root.PersistentFlags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "skip preflight checks")
	root.PersistentFlags().IntVar(&opts.retryAttempts, "retry-attempts", 3, "RPC retry attempts")
	root.PersistentFlags().IntVar(&opts.retryBackoffMs, "retry-backoff-ms", 150, "initial backoff in ms")
	root.PersistentFlags().Float64Var(&opts.rateLimitRPS, "rate-limit-rps", 8, "rate limit RPS (0 to disable)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().IntVar(&opts.timeoutSec, "timeout-sec", 20, "RPC timeout seconds")

	root.PersistentFlags().StringVar(&opts.saleProgram, "sale-program", "", "sale program id")
	root.PersistentFlags().StringVar(&opts.whitelistProgram, "whitelist-program", "", "whitelist program id")
	root.PersistentFlags().StringVar(&opts.whitelistMap, "whitelist-map", "", "whitelist map account")
	root.PersistentFlags().StringVar(&opts.usdtMint, "usdt-mint", "", "USDT mint (default mainnet USDT)")
	root.PersistentFlags().StringVar(&opts.saleMint, "sale-mint", "", "sale token mint")
	root.PersistentFlags().IntVar(&opts.settleDelaySec, "settle-delay-sec", 0, "extra wait after confirmation")

	root.AddCommand(
		newInitCmd(opts),
		newFundCmd(opts),
		newExecuteCmd(opts),
		newStateCmd(opts),
		newQuoteCmd(opts),
	)

	return root
}

type runtimeDeps struct {
	rpc     *sdkrpc.Client
	builder *txbuilder.Builder
	saleCfg sdkconfig.SaleConfig
	log     zerolog.Logger
}

func newDeps(opts *globalOpts) (*runtimeDeps, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.logLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	cfg := sdkconfig.DefaultRPCConfig()
	cfg.RPCURL = opts.rpcURL
	cfg.Commitment = opts.commitment
	cfg.Timeout = time.Duration(opts.timeoutSec) * time.Second
	cfg.Retry.MaxAttempts = opts.retryAttempts
	cfg.Retry.InitialBackoff = time.Duration(opts.retryBackoffMs) * time.Millisecond
	cfg.RateLimit.RPS = opts.rateLimitRPS
	cfg.Logger = logger

	rpcClient := sdkrpc.NewClient(cfg)
	builder := txbuilder.NewBuilder(rpcClient, rpcClient.Commitment()).
		WithSkipPreflight(opts.skipPreflight)

	saleCfg := sdkconfig.DefaultSaleConfig()
	saleCfg.SettleDelay = time.Duration(opts.settleDelaySec) * time.Second
	if opts.saleProgram != "" {
		pk, err := parsePubkey("sale-program", opts.saleProgram)
		if err != nil {
			return nil, err
		}
		saleCfg.SaleProgram = pk
	}
	if opts.whitelistProgram != "" {
		pk, err := parsePubkey("whitelist-program", opts.whitelistProgram)
		if err != nil {
			return nil, err
		}
		saleCfg.WhitelistProgram = pk
	}
	if opts.whitelistMap != "" {
		pk, err := parsePubkey("whitelist-map", opts.whitelistMap)
		if err != nil {
			return nil, err
		}
		saleCfg.WhitelistMap = pk
	}
	if opts.usdtMint != "" {
		pk, err := parsePubkey("usdt-mint", opts.usdtMint)
		if err != nil {
			return nil, err
		}
		saleCfg.USDTMint = pk
	}
	if opts.saleMint != "" {
		pk, err := parsePubkey("sale-mint", opts.saleMint)
		if err != nil {
			return nil, err
		}
		saleCfg.SaleMint = pk
	}

	return &runtimeDeps{
		rpc:     rpcClient,
		builder: builder,
		saleCfg: saleCfg,
		log:     logger,
	}, nil
}
