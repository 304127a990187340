package main

import "github/chapool/intent-wallet/cmd"

func main() {
	cmd.Execute()
}
