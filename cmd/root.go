package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wpcat/internal/app"
	"wpcat/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "wpcat",
	Short: "Assign categories to uncategorized WordPress posts",
	Long: `wpcat finds WordPress posts without a meaningful category, asks a local
Ollama model to suggest one from the post body, and reconciles the
suggestion against existing categories using embedding similarity —
reusing a close match or creating a new category otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		appInstance, err := app.NewApp(cfg)
		if err != nil {
			return err
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type contextKey string

const appKey contextKey = "app"

func getAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCmd checks both external collaborators before a real run: the
// WordPress REST API (auth + reachability) and the Ollama model listing.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check WordPress connectivity and Ollama model availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := getAppFromContext(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Checking WordPress connectivity...")
		cats, err := appInstance.WordPress.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("wordpress check failed: %w", err)
		}
		fmt.Printf("WordPress reachable, %d categories.\n", len(cats))

		fmt.Println("Checking generation model...")
		if err := appInstance.Suggester.EnsureModel(ctx); err != nil {
			return fmt.Errorf("generation service check failed: %w", err)
		}
		fmt.Printf("Model %q available.\n", appInstance.Config.Ollama.Model)
		return nil
	},
}
