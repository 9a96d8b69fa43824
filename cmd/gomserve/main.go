// Command gomserve is the HTTP API around the gomkit pipeline.
//
// It accepts CSV uploads for the external GoM model, converts the model's
// fixed-layout log report into the typed LMFR table, and serves that table
// reshaped as heatmap coordinates for the charting front end.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dfellipe/gomkit"
	"github.com/dfellipe/gomkit/internal/config"
	"github.com/dfellipe/gomkit/observer"
	"github.com/dfellipe/gomkit/store/postgres"
	"github.com/dfellipe/gomkit/store/sqlite"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmsgprefix)
	log.SetPrefix("[gomserve] ")

	cfg := config.Load(os.Getenv("GOMKIT_CONFIG"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	var runner gomkit.ModelRunner = gomkit.NewRscriptRunner(
		cfg.Model.RscriptBin,
		cfg.Model.ScriptPath,
		gomkit.WithRunTimeout(time.Duration(cfg.Model.TimeoutSeconds)*time.Second),
	)

	var inst *observer.Instruments
	if cfg.Observer.Enabled {
		var shutdown func(context.Context) error
		inst, shutdown, err = observer.Init(ctx)
		if err != nil {
			log.Fatalf("observer: %v", err)
		}
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutCtx); err != nil {
				log.Printf("observer shutdown error: %v", err)
			}
		}()
		runner = observer.WrapRunner(runner, inst)
	}

	srv := newServer(cfg, runner, store, inst)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      withCORS(cfg.Server.CORSOrigins, srv.routes()),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	log.Println("stopped")
}

// openStore picks the run store backend: PostgreSQL when a URL is
// configured, local SQLite otherwise.
func openStore(ctx context.Context, cfg config.Config) (gomkit.RunStore, func(), error) {
	if cfg.Database.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		st := postgres.New(pool)
		if err := st.Init(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return st, pool.Close, nil
	}

	st := sqlite.New(cfg.Database.Path)
	if err := st.Init(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}
	return st, func() { st.Close() }, nil
}
