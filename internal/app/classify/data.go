package classify

//Input contains classification request, either one feature line or a list
type Input struct {
	Features     string   `json:"features,omitempty"`
	FeaturesList []string `json:"featuresList,omitempty"`
}

//Result is a single prediction
type Result struct {
	Label    string    `json:"label"`
	Inverted bool      `json:"inverted"`
	Scores   []float32 `json:"scores,omitempty"`
}

//ListOutput contains response for featuresList request
type ListOutput struct {
	Results []Result `json:"results"`
}
