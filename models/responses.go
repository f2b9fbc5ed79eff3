package models

// ErrorResponse is the body of every non-2xx response. The message is a safe
// classification phrase, never raw internal error text.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// OptionsResponse is the capability descriptor returned for OPTIONS requests
// on a collection: the verbs the endpoint actually serves, the headers a
// client may send, and how long the answer may be cached.
type OptionsResponse struct {
	AllowedMethods []string `json:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers"`
	MaxAge         int      `json:"max_age"`
}
