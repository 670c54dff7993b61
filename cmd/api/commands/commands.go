package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/styleselector/core/internal/adapters/host"
	"github.com/styleselector/core/internal/application/services"
	"github.com/styleselector/core/internal/domain/entities"
	"github.com/styleselector/core/internal/infrastructure/config"
	"github.com/styleselector/core/internal/infrastructure/logger"
	"github.com/styleselector/core/internal/infrastructure/server"
	"github.com/styleselector/core/internal/infrastructure/storage"
	"github.com/styleselector/core/internal/ports"
)

// Version is overridden at build time with -ldflags.
var Version = "1.0.0"

// NewRootCommand builds the styleselector command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "styleselector",
		Short:         "Style Selector",
		Long:          `Style Selector keeps a catalog of named prompt templates, groups them into categories and merges them into generation prompts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (yaml, toml or json)")
	flags.String("base-dir", "", "Directory holding the style documents")
	flags.String("host", "", "Address to listen on")
	flags.Int("port", 0, "Port to listen on")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Bool("watch", false, "Flush the read cache when the documents change on disk")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewStyleCommand())
	rootCmd.AddCommand(NewCategoryCommand())
	rootCmd.AddCommand(NewComposeCommand())
	rootCmd.AddCommand(NewReconcileCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Style Selector API server",
		Long:  "Start the HTTP API the host web UI drives, with health, metrics and swagger routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd)
		},
	}
}

// NewStyleCommand creates the style management command
func NewStyleCommand() *cobra.Command {
	styleCmd := &cobra.Command{
		Use:   "style",
		Short: "Style catalog commands",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List style names",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			all, _ := cmd.Flags().GetBool("all")

			var (
				names []string
				err   error
			)
			if all {
				names, err = a.styles.ListAllStyleNames(cmd.Context())
			} else {
				names, err = a.styles.ListStyleNames(cmd.Context(), category)
			}
			if err != nil {
				return err
			}
			printLines(cmd.OutOrStdout(), names)
			return nil
		}),
	}
	listCmd.Flags().String("category", "", "Category to list")
	listCmd.Flags().Bool("all", false, "List every style regardless of category")

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a style's templates",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			record, fb, err := a.ext.ExtractStyleDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !fb.Success {
				return errors.New(fb.Message)
			}
			output, _ := cmd.Flags().GetString("output")
			return printRecord(cmd.OutOrStdout(), record, output)
		}),
	}
	showCmd.Flags().StringP("output", "o", "yaml", "Output format (yaml, json)")

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a style",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			req := ports.AddStyleRequest{Name: args[0]}
			if err := readStyleFlags(cmd, &req.Prompt, &req.NegativePrompt, &req.Category, &req.Image); err != nil {
				return err
			}
			fb, err := a.ext.AddStyle(cmd.Context(), req)
			return report(cmd.OutOrStdout(), fb, err)
		}),
	}
	styleFlags(addCmd)

	modifyCmd := &cobra.Command{
		Use:   "modify <name>",
		Short: "Replace a style's templates and category",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			req := ports.ModifyStyleRequest{Name: args[0]}
			if err := readStyleFlags(cmd, &req.Prompt, &req.NegativePrompt, &req.Category, &req.Image); err != nil {
				return err
			}
			fb, err := a.ext.ModifyStyle(cmd.Context(), req)
			return report(cmd.OutOrStdout(), fb, err)
		}),
	}
	styleFlags(modifyCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a style and its preview image",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			if !cmd.Flags().Changed("category") {
				record, err := a.styles.GetStyleDetails(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				category = record.Category
			}
			fb, err := a.ext.DeleteStyle(cmd.Context(), ports.DeleteStyleRequest{Name: args[0], Category: category})
			return report(cmd.OutOrStdout(), fb, err)
		}),
	}
	deleteCmd.Flags().String("category", "", "Category index entry to remove the name from (defaults to the style's own)")

	styleCmd.AddCommand(listCmd, showCmd, addCmd, modifyCmd, deleteCmd)
	return styleCmd
}

// NewCategoryCommand creates the category management command
func NewCategoryCommand() *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Category index commands",
	}

	categoryCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories in stored order",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			names, err := a.categories.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			printLines(cmd.OutOrStdout(), names)
			return nil
		}),
	})

	addCmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			emoji, _ := cmd.Flags().GetString("emoji")
			fb, err := a.ext.AddCategory(cmd.Context(), ports.AddCategoryRequest{Label: args[0], Emoji: emoji})
			return report(cmd.OutOrStdout(), fb, err)
		}),
	}
	addCmd.Flags().String("emoji", "", "Emoji prefix for the category key")

	categoryCmd.AddCommand(addCmd)

	categoryCmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a category and every style in it",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			fb, err := a.ext.RenameCategory(cmd.Context(), ports.RenameCategoryRequest{OldName: args[0], NewName: args[1]})
			return report(cmd.OutOrStdout(), fb, err)
		}),
	})

	categoryCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category, leaving its styles unassigned",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			fb, err := a.ext.DeleteCategory(cmd.Context(), ports.DeleteCategoryRequest{Name: args[0]})
			return report(cmd.OutOrStdout(), fb, err)
		}),
	})

	return categoryCmd
}

// NewComposeCommand creates the compose command
func NewComposeCommand() *cobra.Command {
	composeCmd := &cobra.Command{
		Use:   "compose <style>",
		Short: "Merge a style into a prompt pair and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			positive, _ := cmd.Flags().GetString("prompt")
			negative, _ := cmd.Flags().GetString("negative")

			resp, fb, err := a.ext.ApplyStyle(cmd.Context(), ports.ApplyStyleRequest{
				Style:    args[0],
				Positive: positive,
				Negative: negative,
			})
			if err != nil {
				return err
			}
			if !fb.Success {
				return errors.New(fb.Message)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "positive: %s\n", resp.Positive)
			fmt.Fprintf(out, "negative: %s\n", resp.Negative)
			return nil
		}),
	}
	composeCmd.Flags().String("prompt", "", "Positive prompt")
	composeCmd.Flags().String("negative", "", "Negative prompt")
	return composeCmd
}

// NewReconcileCommand creates the reconcile command
func NewReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild the category index from the style catalog",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			rep, fb, err := a.ext.Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, fb.Message)
			if rep != nil && rep.Changed() {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(rep)
			}
			return nil
		}),
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Style Selector version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Style Selector v%s\n", Version)
		},
	}
}

func runServer(cmd *cobra.Command) error {
	cfg, appLogger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	store, err := storage.New(cfg.Store, appLogger)
	if err != nil {
		appLogger.Errorw("Failed to open style store", "error", err)
		return err
	}
	defer store.Close()

	srv, err := server.New(cfg, store, appLogger)
	if err != nil {
		appLogger.Errorw("Failed to initialize server", "error", err)
		return err
	}

	appLogger.Infow("Starting Style Selector API server",
		"address", cfg.Server.GetAddr(),
		"store", cfg.Store.BaseDir,
		"environment", cfg.App.Environment,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.GetAddr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Errorw("Server failed", "error", err)
		}
		return err
	case sig := <-quit:
		appLogger.Infow("Received shutdown signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err)
		return err
	}
	return nil
}

// app is the wiring one CLI invocation works against
type app struct {
	store      *storage.Storage
	styles     ports.StyleService
	categories ports.CategoryService
	ext        *host.Extension
	logger     *logger.Logger
}

func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return run(cmd, a, args)
	}
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, appLogger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(cfg.Store, appLogger)
	if err != nil {
		_ = appLogger.Sync()
		return nil, err
	}

	styleService := services.NewStyleService(store.Styles, store.Categories, store.Images, store.Mutations, appLogger)
	categoryService := services.NewCategoryService(store.Categories, store.Styles, cfg.Store, store.Mutations, appLogger)
	composeService := services.NewComposeService(store.Styles, appLogger)

	ext := host.NewExtension(styleService, categoryService, composeService, cfg.Store, appLogger)
	if err := ext.Init(cmd.Context()); err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		store:      store,
		styles:     styleService,
		categories: categoryService,
		ext:        ext,
		logger:     appLogger,
	}, nil
}

func (a *app) close() {
	_ = a.store.Close()
	_ = a.logger.Sync()
}

func loadConfig(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	opts := []config.Option{config.WithFlags(cmd.Flags())}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, appLogger, nil
}

func styleFlags(cmd *cobra.Command) {
	cmd.Flags().String("prompt", "", "Positive template appended after the user's prompt")
	cmd.Flags().String("negative", "", "Negative template placed before the user's negative prompt")
	cmd.Flags().String("category", "", "Category the style belongs to")
	cmd.Flags().String("image", "", "Preview image file (any format imaging can decode)")
}

func readStyleFlags(cmd *cobra.Command, prompt, negative, category *string, image *[]byte) error {
	*prompt, _ = cmd.Flags().GetString("prompt")
	*negative, _ = cmd.Flags().GetString("negative")
	*category, _ = cmd.Flags().GetString("category")

	path, _ := cmd.Flags().GetString("image")
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	*image = data
	return nil
}

// report prints a mutation's feedback and turns a failure into a command error.
func report(out io.Writer, fb ports.Feedback, err error) error {
	if err != nil {
		return err
	}
	if !fb.Success {
		return errors.New(fb.Message)
	}
	fmt.Fprintln(out, fb.Message)
	return nil
}

func printLines(out io.Writer, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}

func printRecord(out io.Writer, record entities.StyleRecord, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	case "yaml", "":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(record)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
