/*
Package custodytest provides mocks and helpers for testing programs,
decorators and the application without a running node.
*/
package custodytest
