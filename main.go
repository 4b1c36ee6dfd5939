package main

import "github.com/emrekoca/zscout/cmd"

func main() {
	cmd.Execute()
}
