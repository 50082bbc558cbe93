package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"wpcat/internal/models"
)

// runCmd is the batch job: one pass over every uncategorized post.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Categorize every uncategorized post in one pass",
	Long: `Fetches all posts whose category list is empty or only the default
category, suggests a category per post via the configured Ollama model,
reuses an existing category when embedding similarity clears the
threshold, and creates a new category otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := getAppFromContext(ctx)
		if err != nil {
			return err
		}

		// Fail fast on a missing model before touching any post.
		if err := appInstance.Suggester.EnsureModel(ctx); err != nil {
			return err
		}

		summary, err := appInstance.CategorizeService.Run(ctx)
		if err != nil {
			if errors.Is(err, models.ErrNoUncategorizedPosts) {
				fmt.Println("No uncategorized posts found. Nothing to do.")
				return nil
			}
			return err
		}

		printSummary(summary)
		return nil
	},
}

func printSummary(summary *models.RunSummary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Post", "Title", "Suggestion", "Category", "Result"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, r := range summary.Results {
		status := ""
		switch r.Outcome {
		case models.OutcomeMatched:
			status = color.GreenString("Matched")
		case models.OutcomeCreated:
			status = color.YellowString("Created")
		case models.OutcomeSkipped:
			status = fmt.Sprintf("%s: %v", color.RedString("Skipped"), r.Err)
		}
		table.Append([]string{
			fmt.Sprintf("%d", r.PostID),
			truncateCell(r.Title, 40),
			r.Suggestion,
			r.CategoryName,
			status,
		})
	}
	table.Render()

	fmt.Printf("\n%d matched, %d created, %d skipped (%d total)\n",
		summary.Count(models.OutcomeMatched),
		summary.Count(models.OutcomeCreated),
		summary.Count(models.OutcomeSkipped),
		len(summary.Results))
}

func truncateCell(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func init() {
	rootCmd.AddCommand(runCmd)
}
