/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sqlstore "github.com/eslsoft/examtrack/internal/adapter/repository"
	"github.com/eslsoft/examtrack/internal/catalog"
	"github.com/eslsoft/examtrack/internal/infrastructure/config"
	"github.com/eslsoft/examtrack/internal/infrastructure/database"
	"github.com/eslsoft/examtrack/internal/infrastructure/server"
)

var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Create the schema and seed the subject catalog",
	Long:  "Runs the table migrations and inserts the TYT/AYT subjects. go-sqlite3 needs a CGO_ENABLED=1 build. Use --schema-only to skip the seed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaOnly, _ := cmd.Flags().GetBool("schema-only")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err := server.NewLogger(cfg)
		if err != nil {
			return err
		}
		db, cleanup, err := database.NewConnection(cfg, logger)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		return initDatabase(ctx, db, schemaOnly, logger)
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
	dbInitCmd.Flags().Bool("schema-only", false, "run migrations without seeding subjects")
}

func initDatabase(ctx context.Context, db *database.DB, schemaOnly bool, logger logrus.FieldLogger) error {
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("database migration complete")
	if schemaOnly {
		return nil
	}

	n, err := catalog.Seed(ctx, sqlstore.NewSQLStore(db))
	if err != nil {
		return fmt.Errorf("seed subjects: %w", err)
	}
	logger.WithField("subjects", n).Info("subject catalog seeded")
	return nil
}
