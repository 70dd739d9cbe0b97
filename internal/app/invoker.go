package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/ethereum"
	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/postgres"
	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/sns"
	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/telemetry"
	"github.com/archon-research/stl/stl-lend/internal/pkg/env"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
	"github.com/archon-research/stl/stl-lend/internal/services/pool_invoker"
)

// Event sink kinds accepted in EVENT_SINK.
const (
	SinkNone     = ""
	SinkSNS      = "sns"
	SinkPostgres = "postgres"
)

// Invoker is a pool invoker with the resources it owns.
type Invoker struct {
	Service *pool_invoker.Service
	closers []func()
}

// Close releases the sink and database handles.
func (i *Invoker) Close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		i.closers[j]()
	}
}

// NewInvoker wires a pool invoker for network from the environment:
//
//	NETWORKS_CONFIG            optional YAML network registry
//	PRIVATE_KEY                sign locally instead of using the node's unlocked account
//	CALLER_ADDRESS             caller override for borrow (default: the PRIVATE_KEY address,
//	                           else the first dev account); must match PRIVATE_KEY when both are set
//	RECEIPT_TIMEOUT            how long to await the receipt (default 2m)
//	EVENT_SINK                 "", "sns" (SNS_TOPIC_ARN) or "postgres" (DATABASE_URL)
func NewInvoker(ctx context.Context, network string, logger *slog.Logger) (*Invoker, error) {
	registry, err := Networks()
	if err != nil {
		return nil, err
	}

	ethCfg := ethereum.ConfigDefaults()
	ethCfg.Networks = registry
	ethCfg.Logger = logger
	ethCfg.ReceiptTimeout = env.GetDuration("RECEIPT_TIMEOUT", ethCfg.ReceiptTimeout)
	ethCfg.ReceiptPollInterval = env.GetDuration("RECEIPT_POLL_INTERVAL", ethCfg.ReceiptPollInterval)
	if hexKey := env.Get("PRIVATE_KEY", ""); hexKey != "" {
		key, err := ethereum.ParsePrivateKey(hexKey)
		if err != nil {
			return nil, err
		}
		ethCfg.PrivateKey = key
	}

	svcCfg := pool_invoker.ConfigDefaults()
	svcCfg.Network = network
	svcCfg.Logger = logger
	caller := env.Get("CALLER_ADDRESS", "")
	if caller != "" {
		if !common.IsHexAddress(caller) {
			return nil, fmt.Errorf("CALLER_ADDRESS %q is not a hex address", caller)
		}
		svcCfg.CallerOverride = common.HexToAddress(caller)
	}

	// A signing key can only send from its own address.
	if ethCfg.PrivateKey != nil {
		signer := crypto.PubkeyToAddress(ethCfg.PrivateKey.PublicKey)
		switch {
		case caller == "":
			svcCfg.CallerOverride = signer
		case svcCfg.CallerOverride != signer:
			return nil, fmt.Errorf("%w: CALLER_ADDRESS %s, PRIVATE_KEY signs for %s",
				outbound.ErrCallerMismatch, svcCfg.CallerOverride.Hex(), signer.Hex())
		}
	}

	inv := &Invoker{}
	sink, err := inv.eventSink(ctx, logger)
	if err != nil {
		inv.Close()
		return nil, err
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		inv.Close()
		return nil, err
	}

	svc, err := pool_invoker.NewService(svcCfg, ethereum.NewConnector(ethCfg), sink, metrics)
	if err != nil {
		inv.Close()
		return nil, err
	}
	inv.Service = svc
	return inv, nil
}

func (i *Invoker) eventSink(ctx context.Context, logger *slog.Logger) (outbound.EventSink, error) {
	switch kind := env.Get("EVENT_SINK", SinkNone); kind {
	case SinkNone:
		return nil, nil

	case SinkSNS:
		client, err := sns.NewClient(ctx, sns.ClientConfig{
			Region:          env.Get("AWS_REGION", "us-east-1"),
			Endpoint:        env.Get("AWS_SNS_ENDPOINT", ""),
			AccessKeyID:     env.Get("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: env.Get("AWS_SECRET_ACCESS_KEY", ""),
		})
		if err != nil {
			return nil, err
		}
		cfg := sns.ConfigDefaults()
		cfg.TopicARN = env.Get("SNS_TOPIC_ARN", "")
		cfg.Logger = logger
		sink, err := sns.NewEventSink(client, cfg)
		if err != nil {
			return nil, err
		}
		i.closers = append(i.closers, func() { _ = sink.Close() })
		return sink, nil

	case SinkPostgres:
		db, err := postgres.OpenDB(ctx, postgres.DefaultDBConfig(env.Get("DATABASE_URL", "")))
		if err != nil {
			return nil, err
		}
		i.closers = append(i.closers, func() { _ = db.Close() })
		return postgres.NewInvocationRepository(db, logger)

	default:
		return nil, fmt.Errorf("unknown EVENT_SINK %q (want %q or %q)", kind, SinkSNS, SinkPostgres)
	}
}
