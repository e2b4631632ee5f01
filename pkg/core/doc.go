// Package core defines the shared language of the Shading dashboard.
//
// This package contains:
//   - Domain entities (User, Post)
//   - Response envelopes shared by the data backend and the UI (PaginatedResponse)
//   - Aggregates rendered on the dashboard pages (UserStats)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
