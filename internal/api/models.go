package api

type HealthResponse struct {
	Status   string `json:"status" description:"Service status"`
	Version  string `json:"version" description:"API version"`
	Strategy string `json:"strategy,omitempty" description:"Active composition strategy"`
}

type GenerationRequest struct {
	Query    string   `json:"query" description:"The user query"`
	Response string   `json:"response" description:"The generated answer to validate"`
	Sources  []string `json:"sources,omitempty" description:"Source documents the answer should be attributable to"`
}

type ComplianceRequest struct {
	Text string `json:"text" description:"Text to scan for PII and medical content"`
}
