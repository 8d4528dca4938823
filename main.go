package main

import "keepsakes/config"

func main() {
	config.RunServer()
}
