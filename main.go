package main

import "github.com/frahmantamala/church-management/cmd"

func main() {
	cmd.Execute()
}
