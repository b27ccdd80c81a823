package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crewcheck/crewcheck/internal/bot"
	"github.com/crewcheck/crewcheck/internal/eligibility"
	"github.com/crewcheck/crewcheck/internal/export"
	"github.com/crewcheck/crewcheck/internal/remind"
	"github.com/crewcheck/crewcheck/internal/store"
	"github.com/crewcheck/crewcheck/pkg/telegram"
)

var servePort int

// telegramNotifier adapts the Bot API client to the reminder fan-out.
type telegramNotifier struct {
	api telegram.API
}

func (n telegramNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	_, err := n.api.SendMessage(ctx, telegram.SendMessageRequest{ChatID: chatID, Text: text})
	return err
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot poller, the reminder sweep and the ops HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		api := telegram.NewClient(cfg.Telegram.Token,
			telegram.WithBaseURL(cfg.Telegram.BaseURL))
		b := bot.New(api, st, cfg.Admin.OwnerID, cfg.Telegram.PollTimeoutSecs)
		checker := remind.NewChecker(st, telegramNotifier{api: api}, cfg.Remind, cfg.Admin.OwnerID)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: opsRouter(st),
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			zap.L().Info("starting bot poller")
			err := b.Run(gctx)
			if err == context.Canceled {
				return nil
			}
			return err
		})

		g.Go(func() error {
			checker.Run(gctx)
			return nil
		})

		g.Go(func() error {
			zap.L().Info("starting ops server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "serve: listen")
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down ops server")
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutCtx)
		})

		return g.Wait()
	},
}

// rosterRow is one person in the ops roster response.
type rosterRow struct {
	ID         int64               `json:"id"`
	FIO        string              `json:"fio"`
	Summary    string              `json:"summary"`
	Cleared    bool                `json:"cleared"`
	BanReasons []string            `json:"ban_reasons,omitempty"`
	Entries    []eligibility.Entry `json:"entries"`
}

func opsRouter(st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Get("/api/roster", func(w http.ResponseWriter, req *http.Request) {
		persons, err := st.ListRegistered(req.Context())
		if err != nil {
			zap.L().Error("roster list failed", zap.Error(err))
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
		now := time.Now()
		rows := make([]rosterRow, 0, len(persons))
		for i := range persons {
			rep := eligibility.Evaluate(&persons[i], now)
			rows = append(rows, rosterRow{
				ID:         persons[i].ID,
				FIO:        persons[i].FIO,
				Summary:    rep.Summary(),
				Cleared:    rep.Cleared(),
				BanReasons: rep.BanReasons(),
				Entries:    rep.Entries,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"roster": rows, "now": now})
	})

	r.Get("/api/roster.xlsx", func(w http.ResponseWriter, req *http.Request) {
		persons, err := st.ListRegistered(req.Context())
		if err != nil {
			zap.L().Error("roster export failed", zap.Error(err))
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="roster.xlsx"`)
		if err := export.WriteRoster(w, persons, time.Now()); err != nil {
			zap.L().Error("roster workbook failed", zap.Error(err))
		}
	})

	return r
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "ops server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
