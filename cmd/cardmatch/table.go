package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/tcgwallet/backend/internal/domain"
)

// renderMatchTable formats ranked matches for terminal output
func renderMatchTable(results []domain.MatchResult) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "ID", "Name", "Pack", "Cost", "Colors", "Counter", "Score"})

	for i, result := range results {
		card := result.Card
		tw.AppendRow(table.Row{
			i + 1,
			card.ID,
			card.Name,
			card.PackID,
			formatOptionalInt(card.Cost),
			strings.Join(card.Colors, "/"),
			formatOptionalInt(card.Counter),
			fmt.Sprintf("%.3f", result.Score),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	return tw.Render()
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
