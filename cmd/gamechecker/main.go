// GameChecker looks up Steam games with Russian name aliases and regional
// prices, over Telegram, HTTP or the command line.
package main

import (
	"os"

	"game-checker-bot/cmd/gamechecker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
