package entities

// EmailDraft is the JSON contract the drafting LLM must return
type EmailDraft struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Recipient string `json:"recipient"`
}
