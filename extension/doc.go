// Package extension provides the function registration table: the mapping
// from a "service.method" function reference to its signature and entry
// point. The table is populated at startup and sealed before worker contexts
// start, after which it is read-only.
package extension
