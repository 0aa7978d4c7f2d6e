package prepare

import (
	"bitbucket.org/airenas/textcnn/internal/pkg/sequence"
	"bitbucket.org/airenas/textcnn/internal/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	fallbackZero    = "zero"
	fallbackUniform = "uniform"
)

//Settings of a preparation run
type Settings struct {
	DataFile       string
	EmbeddingPath  string
	ReservedToken  string
	DropZeroValues bool
	Sequence       sequence.Options
	Fallback       string
	FallbackScale  float64
	Seed           uint64
	Model          store.Params
	MetricsFile    string
	MongoURL       string
}

func setDefaults(c *viper.Viper) {
	c.SetDefault("dataset.file", "training-data.liblinear")
	c.SetDefault("dataset.reservedToken", "")
	c.SetDefault("dataset.dropZeroValues", false)
	c.SetDefault("sequence.padding", sequence.Pre)
	c.SetDefault("sequence.truncating", sequence.Pre)
	c.SetDefault("sequence.value", 0)
	c.SetDefault("embedding.fallback", fallbackZero)
	c.SetDefault("embedding.scale", 0.25)
	c.SetDefault("seed", 1337)
	c.SetDefault("model.embedDim", 300)
	c.SetDefault("model.filters", 200)
	c.SetDefault("model.filterSize", 5)
	c.SetDefault("model.dropout", 0.25)
	c.SetDefault("model.hiddenUnits", 300)
	c.SetDefault("model.l2", 0.001)
	c.SetDefault("model.learnRate", 0.0005)
	c.SetDefault("model.epochs", 8)
	c.SetDefault("model.batchSize", 50)
}

func readSettings(c *viper.Viper) (*Settings, error) {
	res := &Settings{}
	res.DataFile = c.GetString("dataset.file")
	res.ReservedToken = c.GetString("dataset.reservedToken")
	res.DropZeroValues = c.GetBool("dataset.dropZeroValues")
	res.Sequence = sequence.Options{Padding: c.GetString("sequence.padding"),
		Truncating: c.GetString("sequence.truncating"), Value: c.GetInt32("sequence.value")}
	res.EmbeddingPath = c.GetString("embedding.path")
	res.Fallback = c.GetString("embedding.fallback")
	res.FallbackScale = c.GetFloat64("embedding.scale")
	res.Seed = c.GetUint64("seed")
	res.MetricsFile = c.GetString("metrics.file")
	res.MongoURL = c.GetString("mongo.url")
	res.Model = store.Params{
		EmbedDim:    c.GetInt("model.embedDim"),
		Filters:     c.GetInt("model.filters"),
		FilterSize:  c.GetInt("model.filterSize"),
		Dropout:     c.GetFloat64("model.dropout"),
		HiddenUnits: c.GetInt("model.hiddenUnits"),
		L2:          c.GetFloat64("model.l2"),
		LearnRate:   c.GetFloat64("model.learnRate"),
		Epochs:      c.GetInt("model.epochs"),
		BatchSize:   c.GetInt("model.batchSize"),
	}
	return res, res.validate()
}

func (s *Settings) validate() error {
	if s.DataFile == "" {
		return errors.New("no dataset.file provided")
	}
	if s.EmbeddingPath == "" {
		return errors.New("no embedding.path provided")
	}
	if s.Fallback != fallbackZero && s.Fallback != fallbackUniform {
		return errors.Errorf("wrong embedding.fallback '%s', expected %s or %s", s.Fallback, fallbackZero, fallbackUniform)
	}
	return errors.Wrap(s.Sequence.Validate(), "wrong sequence settings")
}
