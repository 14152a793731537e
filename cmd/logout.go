package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"codequest/internal/config"
	"codequest/internal/session"
	"codequest/internal/store"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
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

		if err := session.NewStore(st).Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}
