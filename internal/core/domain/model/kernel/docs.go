// Package kernel contains shared value objects used across the domain model:
// order identifiers, actor identities and roles, geographic locations with the
// service-area bounds, and phone numbers. All value objects validate on
// construction so the rest of the domain can assume they are well formed.
package kernel
