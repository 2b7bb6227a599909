// Package evtable provides a batch extraction orchestrator for event data.
// It drives a user-selected subset of source URLs through an external
// content-extraction capability, tracks per-item state in an in-memory work
// table, and persists de-duplicated results to an upsert-capable store,
// with CSV import/export at both ends.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, firecrawl/, goquery/).
package evtable
