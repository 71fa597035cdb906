package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres) inside this directory.

// ErrVersionConflict is returned when a review decision carries a stale
// document version: another decision was applied since the caller read the
// document. The caller should re-read and retry or surface the conflict.
var ErrVersionConflict = errors.New("document version conflict")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
