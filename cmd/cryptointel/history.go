package main

import (
	"fmt"
	"strconv"

	"github.com/diogo/cryptointel-go/internal/history"
	"github.com/diogo/cryptointel-go/pkg/models"
	"github.com/spf13/cobra"
)

var (
	historyCount int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View submission history",
	Long:  `View and manage your research query history.`,

	PersistentPreRunE: requireValidConfig,
	RunE:              runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent submissions",
	RunE:  runHistoryList,
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := history.NewReader(cfg.HistoryFile)
		entries, err := reader.Search(args[0])
		if err != nil {
			return fmt.Errorf("failed to search history: %w", err)
		}

		if len(entries) == 0 {
			render.RenderInfo("No matching entries found")
			return nil
		}

		render.RenderTitle(fmt.Sprintf("Search Results: %d matches", len(entries)))
		render.RenderHistoryList(entries)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <index|id>",
	Short: "Show details of a history entry",
	Long: `Show a history entry by its position in the full history (1 is the oldest)
or by a prefix of its ID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := findHistoryEntry(history.NewReader(cfg.HistoryFile), args[0])
		if err != nil {
			return err
		}
		render.RenderHistoryEntry(entry)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all history",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := history.NewReader(cfg.HistoryFile)
		if err := reader.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		render.RenderSuccess("History cleared")
		return nil
	},
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	n := historyCount
	if n <= 0 {
		n = 20
	}

	entries, err := history.NewReader(cfg.HistoryFile).ReadLast(n)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		render.RenderInfo("No history entries")
		return nil
	}

	render.RenderTitle("Recent Submissions")
	render.RenderHistoryList(entries)
	return nil
}

// findHistoryEntry resolves a 1-based index or an ID prefix.
// Numbers outside the history range are tried as ID prefixes.
func findHistoryEntry(reader *history.Reader, ref string) (models.HistoryEntry, error) {
	if idx, err := strconv.Atoi(ref); err == nil && idx >= 1 {
		entries, err := reader.ReadAll()
		if err != nil {
			return models.HistoryEntry{}, fmt.Errorf("failed to read history: %w", err)
		}
		if idx <= len(entries) {
			return entries[idx-1], nil
		}
	}
	return reader.FindByID(ref)
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 20, "Number of entries to show")
	historyListCmd.Flags().IntVarP(&historyCount, "count", "n", 20, "Number of entries to show")
}
