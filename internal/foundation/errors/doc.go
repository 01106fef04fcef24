// Package errors provides classified error primitives used across docsite.
//
// A ClassifiedError carries a category (config, validation, filesystem, link,
// storage, ...), a severity and a retry strategy alongside structured context.
// Resolver errors are wrapped into a ClassifiedError at the CLI and HTTP
// boundaries so the adapters can choose an exit status or HTTP status.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryConfig, "site configuration rejected").
//		Fatal().
//		WithContext("config", path).
//		Build()
package errors
