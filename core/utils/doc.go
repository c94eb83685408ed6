// Package utils provides common utility functions for the device-locator application.
// It includes helper functions for type conversion of loosely-typed values coming
// from JSON event payloads and legacy database rows.
package utils
