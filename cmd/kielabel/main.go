package main

import "github.com/MeKo-Tech/kielabel/cmd/kielabel/cmd"

func main() {
	cmd.Execute()
}
