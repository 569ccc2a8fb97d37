package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/logging"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/server"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal as JSON over HTTP",
	Long: `serve exposes classification, answers, scores and the question flow over
HTTP. When server.jwt_secret (or TJB_JWT_SECRET) is set, /api requires a
bearer token; create one with "tjb token".`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	sessions := session.NewMemory(cfg.Journal.SessionTTL.Std())
	sessions.Now = a.now

	s := &server.Server{
		Journal:        a.journal,
		Scores:         a.scores,
		Questions:      a.bank,
		Sessions:       sessions,
		Logger:         logging.New("server"),
		Secret:         []byte(cfg.Server.JWTSecret),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Now:            a.now,
	}
	if err := s.ListenAndServe(ctx, addr); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
