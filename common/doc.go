/*
Package common holds the pieces shared by every contract in the module: the
account id and call context types, the Storage and Invoker capabilities
provided by the host, the lock domain model, the wire codec helpers, the
proportional fee arithmetic and the error taxonomy.

Contracts never touch ambient global state. All storage access goes through
the Storage capability keyed by account id and string key, and all
cross-contract calls go through the Invoker capability, which makes nested
re-entrant calls explicit and the whole engine testable with in-memory
implementations.
*/
package common
