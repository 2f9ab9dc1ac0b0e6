package main

import (
	"fmt"
	"os"

	"amunoz/movimientos/cmd/classify"
	"amunoz/movimientos/cmd/ingest"
	"amunoz/movimientos/cmd/pair"
	"amunoz/movimientos/cmd/report"
	"amunoz/movimientos/cmd/root"
	"amunoz/movimientos/cmd/suggest"
)

func init() {
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(pair.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(suggest.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
