// Package dialogue provides the core data model for branching-dialogue
// execution.
//
// This package contains type definitions and program decoding only. All
// other internal packages import dialogue; dialogue imports nothing
// internal. This keeps it the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Variable values are a sealed scalar set (string, number, bool)
//   - Runtime events are a sealed sum type; consumers must switch
//     exhaustively over the variants
//   - Program decoding validates graph shape up front; a bad payload is
//     rejected before any execution starts
package dialogue
