package dto

type FAQQuestion struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

type FAQTopic struct {
	Topic     string        `json:"topic"`
	Questions []FAQQuestion `json:"questions"`
}

type UploadFAQResponse struct {
	Topics    int `json:"topics"`
	Questions int `json:"questions"`
}
