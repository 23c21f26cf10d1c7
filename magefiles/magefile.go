//go:build mage

// Package main provides build targets for the lexicon project using Mage.
//
// Usage:
//
//	mage build          Compile the lexicon binary to bin/
//	mage serve          Build and run the HTTP API
//	mage test:all       Run every test
//	mage test:unit      Run tests without the race detector or golden updates
//	mage test:race      Run every test with the race detector
//	mage test:golden    Regenerate golden files
//	mage test:cover     Write a coverage profile to bin/coverage.out
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install lexicon to GOPATH/bin
//	mage stats          Print Go lines of code as JSON
package main
