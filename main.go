package main

import "github.com/Black25dvp/silverlux/cmd"

func main() {
	cmd.Execute()
}
