package main

import "github.com/revscan/revscan/cmd/revscan"

func main() { revscan.Execute() }
