package main

import (
	"github.com/bytegauge/bytegauge/cmd/bytegauge/cmd"
)

func main() {
	cmd.Execute()
}
