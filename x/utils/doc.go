/*
Package utils contains decorators that every program in the application
shares: panic recovery, logging, atomic savepoints, tags for the tendermint
indexer and prometheus metrics.
*/
package utils
