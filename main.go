package main

import (
	"github.com/remitx-network/remitx-ledger/cmd"
)

func main() {
	cmd.Execute()
}
