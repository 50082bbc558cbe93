package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories currently on the WordPress host",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := getAppFromContext(ctx)
		if err != nil {
			return err
		}

		cats, err := appInstance.WordPress.ListCategories(ctx)
		if err != nil {
			return err
		}
		if len(cats) == 0 {
			fmt.Println("No categories found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Slug"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, c := range cats {
			table.Append([]string{fmt.Sprintf("%d", c.ID), c.Name, c.Slug})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
