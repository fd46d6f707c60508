package main

import "github.com/mselser95/intraday-exec/cmd"

func main() {
	cmd.Execute()
}
