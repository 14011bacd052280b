package main

import "github.com/velvetlane/storefront/cmd"

func main() {
	cmd.Start()
}
