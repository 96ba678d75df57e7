// Package sitechat provides the backend for an embeddable website chat
// widget. It crawls a single company site, builds a keyword-searchable
// in-memory index of the page text, and answers visitor questions with a
// hosted LLM grounded in retrieved snippets, with a human-handoff
// escalation path.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, gemini/, sqlite/).
package sitechat
