// Package domain contains the core types of the floatd ingestion engine:
// content identity (fingerprints, hashes, float IDs), pattern matches and
// signal profiles, tripartite routing decisions, chunk plans, and the
// processing records persisted between runs.
//
// Types here carry no I/O. Adapters and services depend on this package;
// it depends on nothing but the standard library.
package domain
