// Package authcore provides the client-side authentication core for host
// applications: field and form validation, input sanitization, secure error
// redaction, and a session state machine driven by an injected identity
// provider.
//
// The package is designed for event-driven client workloads: Client methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build], and all state mutation flows through a single-writer
// reducer so no partial update is ever observable.
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Client], [Builder], [Config],
// validation helpers, and value types (AuthState, ValidationResult,
// FormValidationResult). The identity provider and session storage are
// collaborator interfaces under provider/ and storage/ — authcore never
// implements a wire protocol and never branches on the host platform.
//
// # What this package must NOT do
//
//   - Render UI, resolve themes, or own navigation.
//   - Hash passwords or verify credentials — that is the identity
//     provider's job.
//   - Surface raw provider error detail to callers; sign-in and sign-up
//     failures are always redacted through [SecureErrorMessage].
package authcore
