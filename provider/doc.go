// Package provider groups per-vendor conversion layers between the message
// model and provider SDK content types. Sub-packages stop at data
// conversion: they build request message/content values from chunked
// messages and wrap provider responses back into tagged, source-linked
// messages, but never construct clients or issue API calls.
package provider
