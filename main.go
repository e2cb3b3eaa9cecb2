package main

import "github.com/angrysky56/esaf-framework-sub001/cmd"

func main() {
	cmd.Execute()
}
