// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max
// attempts, initial delay and maximum delay on top of
// github.com/cenkalti/backoff/v4. It is used for template downloads,
// kubectl invocations and SSH commands. Errors wrapped with [Fatal] stop
// the loop immediately.
package retry
