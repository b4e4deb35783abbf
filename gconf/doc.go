/*
Package gconf provides a toolset for managing an extension configuration.

Each extension stores its configuration as a singleton under the
"_c:<package name>" key. It is loaded from the genesis "conf" section and
read by handlers on every call, so a chain can change rent parameters or
escrow term checks without a code change.
*/
package gconf
