package main

import "github.com/PerkyG/Tradingbot-TeeAa-sub000/cmd"

func main() {
	cmd.Execute()
}
