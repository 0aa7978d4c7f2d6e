package store

//Params are hyperparameters and shapes handed to the model trainer
type Params struct {
	VocabSize     int     `yaml:"vocabSize"`
	MaxLen        int     `yaml:"maxLen"`
	Classes       int     `yaml:"classes"`
	ReservedToken string  `yaml:"reservedToken,omitempty"`
	Padding       string  `yaml:"padding"`
	Truncating    string  `yaml:"truncating"`
	PadValue      int32   `yaml:"padValue"`
	EmbedDim      int     `yaml:"embedDim"`
	Filters       int     `yaml:"filters"`
	FilterSize    int     `yaml:"filterSize"`
	Dropout       float64 `yaml:"dropout"`
	HiddenUnits   int     `yaml:"hiddenUnits"`
	L2            float64 `yaml:"l2"`
	LearnRate     float64 `yaml:"learnRate"`
	Epochs        int     `yaml:"epochs"`
	BatchSize     int     `yaml:"batchSize"`
	Seed          uint64  `yaml:"seed"`
	Fallback      string  `yaml:"fallback"`
	MissingRows   int     `yaml:"missingRows"`
	RunID         string  `yaml:"runID"`
}
