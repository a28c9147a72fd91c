package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"zimmetd/internal/audit"
	gormdb "zimmetd/internal/db"
	"zimmetd/internal/zimmet"
	"zimmetd/pkg/bus"
	"zimmetd/pkg/db"
	"zimmetd/pkg/render"
	gos3 "zimmetd/pkg/s3"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "zimmetctl",
		Short:         "Operations utility for the zimmet inventory service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newSeedCommand())
	cmd.AddCommand(newReceiptsCommand())
	cmd.AddCommand(newAuditCommand())
	cmd.AddCommand(newFormsCommand())
	return cmd
}

func dsnFromEnv() (string, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return "", errors.New("DB_DSN is required")
	}
	return dsn, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			dsn, err := dsnFromEnv()
			if err != nil {
				return err
			}
			pool, err := db.Open(ctx, dsn)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert baseline directory records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			dsn, err := dsnFromEnv()
			if err != nil {
				return err
			}
			orm, err := gormdb.Connect(ctx, dsn)
			if err != nil {
				return err
			}
			defer func() { _ = gormdb.Close(orm) }()

			if err := zimmet.Seed(ctx, orm); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
			return nil
		},
	}
}

func newAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit stream operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newAuditTailCommand())
	return cmd
}

func newAuditTailCommand() *cobra.Command {
	var durable string

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow the audit event stream and print entries to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := os.Getenv("NATS_URL")
			if url == "" {
				return errors.New("NATS_URL is required")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			eventBus, err := bus.New(url)
			if err != nil {
				return err
			}
			defer eventBus.Close()

			out := cmd.OutOrStdout()
			sub, err := eventBus.Subscribe(ctx, audit.Subject, durable, func(_ context.Context, data []byte) error {
				_, err := fmt.Fprintf(out, "%s\n", data)
				return err
			})
			if err != nil {
				return err
			}
			defer func() { _ = sub.Close() }()

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&durable, "durable", "zimmetctl-audit-tail", "durable consumer name")
	return cmd
}

func newFormsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forms",
		Short: "Scanned assignment form operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newFormsUploadCommand())
	return cmd
}

func newFormsUploadCommand() *cobra.Command {
	var bucket string

	cmd := &cobra.Command{
		Use:   "upload <assignment-id> <file>",
		Short: "Upload a scanned form and record its path on the assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid assignment id: %w", err)
			}
			if bucket == "" {
				bucket = os.Getenv("FORM_BUCKET")
			}
			if bucket == "" {
				return errors.New("bucket is required (--bucket or FORM_BUCKET)")
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			client, err := gos3.NewClientFromEnv()
			if err != nil {
				return err
			}

			key := fmt.Sprintf("forms/%s/%s", id, filepath.Base(args[1]))
			contentType := mime.TypeByExtension(filepath.Ext(args[1]))
			if err := client.PutObject(ctx, bucket, key, f, info.Size(), contentType); err != nil {
				return err
			}

			dsn, err := dsnFromEnv()
			if err != nil {
				return err
			}
			orm, err := gormdb.Connect(ctx, dsn)
			if err != nil {
				return err
			}
			defer func() { _ = gormdb.Close(orm) }()

			engine, err := zimmet.NewEngine(orm, nil, zerolog.Nop())
			if err != nil {
				return err
			}
			actor := zimmet.Actor{Name: "zimmetctl"}
			if _, err := engine.UpdateAssignment(ctx, actor, id, zimmet.UpdateParams{FormPath: &key}); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "form storage bucket")
	return cmd
}

func newReceiptsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "Return receipt operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newReceiptsPrintCommand())
	return cmd
}

func newReceiptsPrintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print <receipt-id>",
		Short: "Render a return receipt document to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid receipt id: %w", err)
			}
			dsn, err := dsnFromEnv()
			if err != nil {
				return err
			}
			orm, err := gormdb.Connect(ctx, dsn)
			if err != nil {
				return err
			}
			defer func() { _ = gormdb.Close(orm) }()

			renderer, err := render.New()
			if err != nil {
				return err
			}
			receipts, err := zimmet.NewReceipts(orm, renderer)
			if err != nil {
				return err
			}

			doc, err := receipts.Document(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}
