package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// PrintTable renders rows as a boxed table. The first row is the header.
func PrintTable(data [][]string, writer io.Writer) {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to output table: %s", err.Error())
		return
	}

	fmt.Fprintln(writer, str)
}

// PrintTableWithFooter renders rows with the last row styled as a footer.
func PrintTableWithFooter(data [][]string, writer io.Writer) {
	if len(data) < 2 {
		PrintTable(data, writer)
		return
	}

	last := data[len(data)-1]
	styled := make([]string, len(last))

	for i, cell := range last {
		styled[i] = pterm.Bold.Sprint(cell)
	}

	rows := append(data[:len(data)-1:len(data)-1], styled)

	PrintTable(rows, writer)
}
