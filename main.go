package main

import (
	"biointake.io/infrastructure"
	"biointake.io/infrastructure/env"
)

func init() {
	env.LoadEnv()
}

func main() {
	infrastructure.StartServer()
}
