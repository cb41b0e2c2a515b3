package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/laraDundar/pvo-limburg/internal/model"
	"github.com/laraDundar/pvo-limburg/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored fusion results over HTTP",
	Long:  "Read-only API over the result store. Query parameters re-threshold against the stored raw scores, so consumers never need a fusion re-run to tighten or loosen a cutoff.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedMethods: []string{http.MethodGet},
			AllowedOrigins: []string{"*"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/results", func(w http.ResponseWriter, req *http.Request) {
			filter, err := filterFromQuery(req)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}

			results, err := st.ListResults(req.Context(), filter)
			if err != nil {
				zap.L().Error("list results failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list results"})
				return
			}
			if results == nil {
				results = []model.FusionResult{}
			}
			writeJSON(w, http.StatusOK, results)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// filterFromQuery builds a ResultFilter from query parameters: country
// (comma-separated codes), min_conf, min_sme, limit.
func filterFromQuery(req *http.Request) (store.ResultFilter, error) {
	var filter store.ResultFilter
	q := req.URL.Query()

	if raw := q.Get("country"); raw != "" {
		filter.Countries = strings.Split(raw, ",")
	}
	for param, dst := range map[string]*float64{
		"min_conf": &filter.MinCountryScore,
		"min_sme":  &filter.MinSMEProbability,
	} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return filter, eris.Errorf("%s must be a number in [0,1]", param)
		}
		*dst = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, eris.New("limit must be a non-negative integer")
		}
		filter.Limit = v
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
