package model

// Explanation is an optional LLM-generated plain-language account of a
// rendered result. It is presentation-only: it never feeds back into
// rendering, claims, or anything the caseworker acts on.
type Explanation struct {
	Enabled          bool     `json:"enabled"`
	Provider         string   `json:"provider,omitempty"` // openai, anthropic, ollama
	Model            string   `json:"model,omitempty"`
	StrictFields     bool     `json:"strict_fields"` // Whether field-allowlist enforcement was enabled
	Text             string   `json:"text,omitempty"`
	ReferencedFields []string `json:"referenced_fields,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}
