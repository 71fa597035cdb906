package model

// Package model contains the domain models shared across layers.
// No persistence tags and no business logic beyond pure derivations.
