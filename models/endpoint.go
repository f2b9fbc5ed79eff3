package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Verb is an HTTP method an entity endpoint can expose.
type Verb string

const (
	VerbGet     Verb = http.MethodGet
	VerbPost    Verb = http.MethodPost
	VerbPut     Verb = http.MethodPut
	VerbPatch   Verb = http.MethodPatch
	VerbDelete  Verb = http.MethodDelete
	VerbOptions Verb = http.MethodOptions
	VerbHead    Verb = http.MethodHead
)

var (
	// ErrUnknownVerb means an endpoint names a verb outside the supported set.
	ErrUnknownVerb = errors.New("unknown verb")

	// ErrNoEffectiveVerbs means the excluded set cancelled out every allowed
	// verb, leaving the endpoint with no routes at all.
	ErrNoEffectiveVerbs = errors.New("no effective verbs")
)

// allVerbs is the canonical verb order. Route compilation and the OPTIONS
// capability descriptor both follow it, so the emitted route list and the
// advertised method list stay deterministic.
var allVerbs = []Verb{VerbGet, VerbPost, VerbPut, VerbPatch, VerbDelete, VerbOptions, VerbHead}

// AllVerbs returns a copy of the full supported verb set in canonical order.
func AllVerbs() []Verb {
	verbs := make([]Verb, len(allVerbs))
	copy(verbs, allVerbs)
	return verbs
}

func knownVerb(v Verb) bool {
	for _, known := range allVerbs {
		if v == known {
			return true
		}
	}
	return false
}

// Endpoint binds an entity descriptor to the verb set it exposes over HTTP.
// Endpoints are collected before the server starts and are immutable while
// traffic is being served.
type Endpoint struct {
	// Entity is the descriptor the generated handlers operate on.
	Entity Entity

	// AllowedVerbs is the verb set to expose. Nil or empty means every
	// supported verb.
	AllowedVerbs []Verb

	// ExcludedVerbs is subtracted from AllowedVerbs.
	ExcludedVerbs []Verb

	// RequiresAuth gates every route of this endpoint behind bearer token
	// verification.
	RequiresAuth bool
}

// EffectiveVerbs computes the verb set the endpoint actually exposes:
// AllowedVerbs minus ExcludedVerbs, in canonical order. Verbs outside the
// supported set fail with ErrUnknownVerb so a typo in a registration call
// surfaces at startup, never at request time.
func (e Endpoint) EffectiveVerbs() ([]Verb, error) {
	allowed := e.AllowedVerbs
	if len(allowed) == 0 {
		allowed = allVerbs
	}

	for _, v := range allowed {
		if !knownVerb(v) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, v)
		}
	}

	excluded := make(map[Verb]bool, len(e.ExcludedVerbs))
	for _, v := range e.ExcludedVerbs {
		if !knownVerb(v) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, v)
		}
		excluded[v] = true
	}

	allowedSet := make(map[Verb]bool, len(allowed))
	for _, v := range allowed {
		allowedSet[v] = true
	}

	var effective []Verb
	for _, v := range allVerbs {
		if allowedSet[v] && !excluded[v] {
			effective = append(effective, v)
		}
	}

	if len(effective) == 0 {
		return nil, fmt.Errorf("%w: entity %q", ErrNoEffectiveVerbs, e.Entity.Name)
	}

	return effective, nil
}

// Validate checks the endpoint as a whole: the entity descriptor must be
// valid and the verb sets must resolve to a non-empty effective set.
func (e Endpoint) Validate() error {
	if err := e.Entity.Validate(); err != nil {
		return err
	}

	_, err := e.EffectiveVerbs()
	return err
}
