package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the journal tools to an MCP client over stdio",
	Long: `mcp runs a Model Context Protocol server on stdin/stdout with the tools
ping, classify_answer, record_answer, daily_score, list_entries and
next_question. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	s := mcptools.NewServer(&mcptools.Tools{
		Journal:   a.journal,
		Scores:    a.scores,
		Questions: a.bank,
		Now:       a.now,
	}, version)
	return mcptools.Serve(s)
}
