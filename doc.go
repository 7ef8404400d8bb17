// Package backend provides the Bbyte API server.

// This package contains the main application entry points. The actual API
// implementation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: Authentication services (JWT, bcrypt)
// - internal/events: In-process event bus for engagement events
// - internal/notifications: Listeners persisting notification rows
// - internal/storage: File storage (S3) operations
// - internal/database: Database connection and migrations
// - internal/middleware: HTTP middleware (logging, metrics, rate limiting)
// - internal/cache: Redis client for distributed rate limiting
// - internal/seed: Development data seeding
package backend
