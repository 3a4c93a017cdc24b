// Package store persists named collections for the flying chess server.
//
// A collection (games, maps, libraries) is read and written as a whole: Load
// fills a value with the last saved collection and Save replaces it. FileStore
// keeps one JSON document per collection in a data directory and swaps files
// atomically; MemoryStore keeps encoded copies in memory for tests and for
// servers started with --in-memory.
package store
