// Package core provides the foundational domain types shared across the POML
// SDK. It defines the normalized message model produced by the renderer:
//
//   - Speaker (the renderer's role vocabulary: human, assistant, system)
//   - Part (closed set of content segments: plain text and multimedia)
//   - RichContent (scalar text or an ordered part sequence)
//   - Message (speaker + rich content)
//
// The package also owns decoding of the renderer's JSON output into these
// types, including shape validation. Conversion into consumer-specific
// formats (OpenAI chat, LangChain, provider SDK params) lives in the format
// package; this package intentionally knows nothing about any consumer.
package core
