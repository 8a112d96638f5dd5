// Package sanitizer normalizes customer-supplied booking data before validation and storage.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings rather than errors, and leave the rejection to the validators.
//
// Normalization includes:
//   - Phone numbers: Convert to E.164 format, defaulting to Croatian numbering
//   - Emails: Trim and lowercase
//   - Names and free text: Collapse whitespace, trim leading/trailing spaces
//   - Labels: Lowercase and collapse whitespace ("Deep  Clean" becomes "deep clean")
//   - Slices: Remove duplicates and empty values after normalization
package sanitizer
