package main

// Version is set at build time:
// go build -ldflags "-X main.Version=1.0.0" ./cmd/bounce
var Version = "dev"
