package main

import "github.com/nutrilog/nutrilog/cmd/nutrilog"

func main() {
	nutrilog.Execute()
}
