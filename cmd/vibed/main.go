package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"vibemarket/config"
	"vibemarket/core/events"
	"vibemarket/native/market"
	"vibemarket/native/nft"
	"vibemarket/native/registry"
	"vibemarket/native/token"
	"vibemarket/native/trader"
	"vibemarket/observability"
	"vibemarket/observability/logging"
	"vibemarket/state"
	"vibemarket/storage"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("VIBEMARKET_ENV"))
	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if env == "" {
		env = cfg.Environment
	}
	logger := logging.Setup(cfg.ServiceName, env)

	owner, err := config.ParseHandle(cfg.Owner)
	if err != nil {
		logger.Error("Failed to parse owner handle", slog.Any("error", err))
		os.Exit(1)
	}
	platform, err := config.ParseHandle(cfg.Platform)
	if err != nil {
		logger.Error("Failed to parse platform handle", slog.Any("error", err))
		os.Exit(1)
	}
	marketAddr, err := config.ParseHandle(cfg.Market)
	if err != nil {
		logger.Error("Failed to parse market handle", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	manager := state.NewManager(db)
	recorder := events.NewRecorder(events.DefaultRecorderCapacity)
	emitter := events.MultiEmitter{recorder, observability.MetricsEmitter{}}

	directory := registry.NewEngine()
	directory.SetState(manager)
	directory.SetOwner(owner)
	directory.SetEmitter(emitter)

	assets := nft.NewEngine()
	assets.SetState(manager)
	assets.SetOwner(owner)
	assets.SetRoyaltyCeiling(cfg.Genesis.RoyaltyCeilingBps)
	assets.SetEmitter(emitter)

	ledger := token.NewEngine()
	ledger.SetState(manager)
	ledger.SetOwner(owner)
	ledger.SetEmitter(emitter)

	marketplace := market.NewEngine()
	marketplace.SetState(manager)
	marketplace.SetDirectory(directory)
	marketplace.SetOwner(owner)
	marketplace.SetAddress(marketAddr)
	marketplace.SetFeeCollector(platform)
	marketplace.SetEmitter(emitter)

	guard := trader.NewEngine()
	guard.SetState(manager)
	guard.SetOwner(owner)
	guard.SetEmitter(emitter)

	if err := applyGenesis(cfg, manager, ledger, marketAddr); err != nil {
		logger.Error("Failed to apply genesis parameters", slog.Any("error", err))
		os.Exit(1)
	}
	if err := manager.Commit(); err != nil {
		logger.Error("Failed to commit genesis state", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("engine node started",
		slog.String("data_dir", cfg.DataDir),
		slog.String("metrics", cfg.MetricsAddress))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	server := &http.Server{
		Addr:              cfg.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Metrics server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// applyGenesis seeds the curve, the platform fee, and the directory's own
// marketplace entry on first boot. Re-running against an initialised database
// is a no-op.
func applyGenesis(cfg *config.Config, manager *state.Manager, ledger *token.Engine, marketAddr [20]byte) error {
	slope, err := config.ParseAmount(cfg.Genesis.CurveSlope)
	if err != nil {
		return fmt.Errorf("curve slope: %w", err)
	}
	initialPrice, err := config.ParseAmount(cfg.Genesis.InitialPrice)
	if err != nil {
		return fmt.Errorf("initial price: %w", err)
	}
	supplyCap, err := config.ParseAmount(cfg.Genesis.SupplyCap)
	if err != nil {
		return fmt.Errorf("supply cap: %w", err)
	}
	if err := ledger.InitializeCurve(&token.CurveParameters{
		Slope:        slope,
		InitialPrice: initialPrice,
		Cap:          supplyCap,
	}); err != nil {
		return fmt.Errorf("initialise curve: %w", err)
	}
	if _, ok, err := manager.PlatformFeeGet(); err != nil {
		return fmt.Errorf("platform fee: %w", err)
	} else if !ok {
		if err := manager.PlatformFeePut(cfg.Genesis.PlatformFeeBps); err != nil {
			return fmt.Errorf("platform fee: %w", err)
		}
	}
	if marketAddr != ([20]byte{}) {
		if _, ok, err := manager.ContractGet(registry.NameMarketplace); err != nil {
			return fmt.Errorf("marketplace entry: %w", err)
		} else if !ok {
			if err := manager.ContractPut(registry.NameMarketplace, marketAddr); err != nil {
				return fmt.Errorf("marketplace entry: %w", err)
			}
		}
	}
	return nil
}
