package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"codequest/internal/admin"
	"codequest/internal/api"
	"codequest/internal/app"
	"codequest/internal/auth"
	"codequest/internal/catalog"
	"codequest/internal/comments"
	"codequest/internal/config"
	"codequest/internal/debuglog"
	"codequest/internal/screens"
	"codequest/internal/session"
	"codequest/internal/store"
)

// runApp loads config, opens the store, builds dependencies, and launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	log := debuglog.New(cfg.Debug, cfg.DebugLogURL)
	defer log.Sync()

	sessions := session.NewStore(st)
	client := api.NewClient(cfg.BaseURL, cfg.ProjectID, sessions, log)

	deps := screens.Deps{
		Auth:     auth.New(client, sessions),
		Client:   client,
		Catalog:  catalog.NewService(client),
		Admin:    admin.NewService(client),
		Comments: comments.NewService(st.CommentRepo()),
		Log:      log,
	}

	return app.Run(deps)
}
