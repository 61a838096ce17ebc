package api

type AskRequest struct {
	Question string `json:"question" description:"Natural-language data-science question"`
}

type AskResponse struct {
	Answer string `json:"answer" description:"Normalized code snippet or plain-text answer"`
}

type HealthResponse struct {
	Status string `json:"status" description:"Service status"`
	Model  string `json:"model" description:"Backend model ID"`
	Ready  bool   `json:"ready" description:"Whether the assistant accepts questions"`
}

type StatusResponse struct {
	Status string `json:"status" description:"Service status"`
	Model  string `json:"model" description:"Backend model ID"`
}

type RootResponse struct {
	Message string `json:"message" description:"Service name"`
	Status  string `json:"status" description:"Service status"`
}
