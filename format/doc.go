// Package format reshapes the renderer's normalized message list into the
// representations downstream consumers expect.
//
// Two wire-shaped conversions mirror the shapes framework integrations
// consume directly (OpenAI chat mappings and LangChain message mappings),
// and two SDK-typed adapters produce ready-to-send request params for the
// official OpenAI and Anthropic Go clients. All conversions validate speaker
// vocabulary and content parts; nothing is silently dropped.
package format
