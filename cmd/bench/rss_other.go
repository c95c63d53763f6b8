//go:build !unix

package main

func getMaxRSS() uint64 { return 0 }
