package main

import "asset-browser/cmd/assetctl/cmd"

func main() {
	cmd.Execute()
}
