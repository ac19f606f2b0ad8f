// Package models defines the domain entities for the Smart Closet client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects mirroring the backend's wire format:
//   - [ClothingItem] : one detected garment with its classification attributes
//   - [Closet] : the ordered inventory snapshot from one fetch
//   - [User] : the read-only identity snapshot from the identity provider
//
// 2. Derived, in-memory structures:
//   - [Grouping] / [Group] : items partitioned by originating photo, built
//     by [GroupByImage] in first-appearance order
//
// Nothing here is persisted; a snapshot lives for the duration of the
// authenticated session and is replaced wholesale on every refresh.
package models
